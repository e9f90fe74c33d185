package risk

import (
	"errors"
	"fmt"
)

var ErrInvalidVisit = errors.New("invalid visit")

// InvalidVisitError reports the first field of a visit that is missing or
// outside its documented domain.
type InvalidVisitError struct {
	VisitID string
	Field   string
	Reason  string
}

func (e *InvalidVisitError) Error() string {
	if e.VisitID == "" {
		return fmt.Sprintf("invalid visit: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid visit %q: %s %s", e.VisitID, e.Field, e.Reason)
}

// Is lets callers match any InvalidVisitError with errors.Is(err, ErrInvalidVisit).
func (e *InvalidVisitError) Is(target error) bool {
	return target == ErrInvalidVisit
}
