package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateVisit checks a visit against its struct tags plus the rules tags
// cannot express, such as the configured star scale. It never coerces a value.
func (e *Engine) ValidateVisit(v Visit) error {
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &InvalidVisitError{VisitID: v.ID, Field: fe.Namespace(), Reason: describeTag(fe)}
		}
		return &InvalidVisitError{VisitID: v.ID, Field: "Visit", Reason: err.Error()}
	}
	if math.IsInf(v.Price, 0) {
		return &InvalidVisitError{VisitID: v.ID, Field: "Visit.Price", Reason: "must be finite"}
	}
	if !v.Feedback.Provided {
		return nil
	}
	switch stars := v.Feedback.Stars; {
	case stars == 0:
		return &InvalidVisitError{VisitID: v.ID, Field: "Visit.Feedback.Stars", Reason: "is required when feedback is provided"}
	case stars < 1:
		return &InvalidVisitError{VisitID: v.ID, Field: "Visit.Feedback.Stars", Reason: "must be at least 1"}
	case stars > e.cfg.MaxFeedbackStars:
		return &InvalidVisitError{VisitID: v.ID, Field: "Visit.Feedback.Stars", Reason: fmt.Sprintf("must be at most %d", e.cfg.MaxFeedbackStars)}
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
