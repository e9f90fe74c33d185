package risk

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const dateLayout = "2006-01-02"

// visitFactors are the normalized [0,1] risk contributions of one visit.
type visitFactors struct {
	delay      float64
	price      float64
	feedback   float64
	repeat     float64
	resolution float64
}

func (e *Engine) factors(v Visit) visitFactors {
	f := visitFactors{
		delay:  clamp01(float64(v.ServiceDelayInDays) / float64(e.cfg.MaxDelayDays)),
		price:  clamp01(math.Abs(v.Price-e.cfg.BasePrice) / e.cfg.BasePrice),
		repeat: clamp01(float64(v.RepeatIssues) / float64(e.cfg.MaxRepeatIssues)),
	}
	// Missing feedback is a mid-point risk, not a neutral one.
	rated := 0.5
	if v.Feedback.Provided {
		rated = float64(v.Feedback.Stars) / float64(e.cfg.MaxFeedbackStars)
	}
	f.feedback = clamp01(1 - rated)
	if !v.WasIssueResolved {
		f.resolution = 1
	}
	return f
}

func (e *Engine) weighted(f visitFactors) float64 {
	w := e.cfg.VisitWeights
	return f.delay*w.Delay + f.price*w.Price + f.feedback*w.Feedback + f.repeat*w.Repeat + f.resolution*w.Resolution
}

// ScoreVisit validates v and returns its 0-100 risk assessment.
func (e *Engine) ScoreVisit(v Visit) (Assessment, error) {
	return e.scoreVisit(v, nil)
}

// ScoreCustomerVisit is ScoreVisit with the owning customer named in the explanation.
func (e *Engine) ScoreCustomerVisit(c Customer, v Visit) (Assessment, error) {
	return e.scoreVisit(v, &c)
}

// ScoreVisits scores every visit in order, stopping at the first invalid one.
func (e *Engine) ScoreVisits(visits []Visit) ([]ScoredVisit, error) {
	out := make([]ScoredVisit, 0, len(visits))
	for _, v := range visits {
		a, err := e.ScoreVisit(v)
		if err != nil {
			return nil, err
		}
		out = append(out, ScoredVisit{Visit: v, Assessment: a})
	}
	return out, nil
}

func (e *Engine) scoreVisit(v Visit, c *Customer) (Assessment, error) {
	if err := e.ValidateVisit(v); err != nil {
		return Assessment{}, err
	}
	f := e.factors(v)
	score := toScore(e.weighted(f))
	level := e.LevelFor(score)

	positives, concerns := e.visitSignals(v, f)
	return Assessment{
		Score:       score,
		Level:       level,
		Explanation: e.visitExplanation(v, c, f, score, level),
		Positives:   positives,
		Concerns:    concerns,
		Suggestions: e.visitSuggestions(v, level),
	}, nil
}

func (e *Engine) visitSignals(v Visit, f visitFactors) (positives, concerns []string) {
	positives, concerns = []string{}, []string{}

	switch {
	case v.ServiceDelayInDays <= 1:
		positives = append(positives, "Quick Service Turnaround")
	case v.ServiceDelayInDays > 2:
		concerns = append(concerns, fmt.Sprintf("Service Delay: %d days", v.ServiceDelayInDays))
	}

	if f.price <= 0.2 {
		positives = append(positives, "Good Price")
	} else {
		concerns = append(concerns, "Significant Price Shock")
	}

	switch {
	case !v.Feedback.Provided:
		concerns = append(concerns, "No Feedback Provided")
	case v.Feedback.Stars >= 4:
		positives = append(positives, "High Customer Feedback")
	case v.Feedback.Stars <= 2:
		concerns = append(concerns, "Low Customer Feedback")
	}

	if v.RepeatIssues == 0 {
		positives = append(positives, "No Repeat Issues")
	} else {
		concerns = append(concerns, fmt.Sprintf("Repeat Issues: %d", v.RepeatIssues))
	}

	if v.WasIssueResolved {
		positives = append(positives, "Issue Resolved")
	} else {
		concerns = append(concerns, "Issue Not Resolved")
	}
	return positives, concerns
}

func (e *Engine) visitSuggestions(v Visit, level Level) []string {
	out := []string{}
	if !v.WasIssueResolved {
		out = append(out, "Address the unresolved issue immediately.")
	}
	if v.ServiceDelayInDays > 0 {
		out = append(out, "Consider a compensatory gesture for the service delay.")
	}
	if !v.Feedback.Provided || v.Feedback.Stars < 3 {
		out = append(out, "Reach out for detailed feedback.")
	}
	if v.RepeatIssues > 0 {
		out = append(out, "Schedule a root-cause inspection for the recurring problem.")
	} else {
		out = append(out, "Maintain quick, quality service to keep satisfaction up.")
	}
	switch level {
	case LevelSafe:
		out = append(out, "No immediate action required.")
	case LevelCritical:
		out = append(out, "Management intervention recommended.")
	}
	return out
}

func (e *Engine) visitExplanation(v Visit, c *Customer, f visitFactors, score float64, level Level) string {
	w := e.cfg.VisitWeights
	var b strings.Builder

	fmt.Fprintf(&b, "Visit Risk Score: %.0f/100 (%s)\n", score, level.Label())
	if c != nil {
		fmt.Fprintf(&b, "Customer: %s\n", describeCustomer(*c))
	}
	if v.ID != "" {
		fmt.Fprintf(&b, "Visit: %s on %s\n", v.ID, v.VisitDate.Format(dateLayout))
	} else {
		fmt.Fprintf(&b, "Visit on %s\n", v.VisitDate.Format(dateLayout))
	}

	b.WriteString("Breakdown:\n")
	fmt.Fprintf(&b, "- Service Delay: %d days (risk %s, weight %s)\n", v.ServiceDelayInDays, pct(f.delay), pct(w.Delay))
	fmt.Fprintf(&b, "- Price: %s against a %s baseline (risk %s, weight %s)\n", e.money(v.Price), e.money(e.cfg.BasePrice), pct(f.price), pct(w.Price))
	if v.Feedback.Provided {
		fmt.Fprintf(&b, "- Feedback: %d/%d stars (risk %s, weight %s)\n", v.Feedback.Stars, e.cfg.MaxFeedbackStars, pct(f.feedback), pct(w.Feedback))
	} else {
		fmt.Fprintf(&b, "- Feedback: not provided (risk %s, weight %s)\n", pct(f.feedback), pct(w.Feedback))
	}
	fmt.Fprintf(&b, "- Repeat Issues: %d (risk %s, weight %s)\n", v.RepeatIssues, pct(f.repeat), pct(w.Repeat))
	resolved := "unresolved"
	if v.WasIssueResolved {
		resolved = "resolved"
	}
	fmt.Fprintf(&b, "- Issue Resolution: %s (risk %s, weight %s)\n", resolved, pct(f.resolution), pct(w.Resolution))

	b.WriteString("Observations:\n")
	for _, line := range e.visitObservations(v, f) {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	fmt.Fprintf(&b, "Overall, this visit %s", visitVerdict(level))
	return b.String()
}

func (e *Engine) visitObservations(v Visit, f visitFactors) []string {
	var out []string
	if v.ServiceDelayInDays > 10 {
		out = append(out, "A long service delay raises the chance of disengagement.")
	} else {
		out = append(out, "Service was close to on time.")
	}
	if f.price > 0.2 {
		out = append(out, "The bill is far from baseline and may feel like a price shock.")
	} else {
		out = append(out, "The bill is close to baseline.")
	}
	switch {
	case !v.Feedback.Provided:
		out = append(out, "Missing feedback hides how the customer really feels.")
	case v.Feedback.Stars < 3:
		out = append(out, "Low feedback points to dissatisfaction.")
	default:
		out = append(out, "Feedback is positive.")
	}
	if v.RepeatIssues > 0 {
		out = append(out, "Repeat problems suggest the root cause was not fixed.")
	} else {
		out = append(out, "No repeat problems were reported.")
	}
	if v.WasIssueResolved {
		out = append(out, "The issue was resolved.")
	} else {
		out = append(out, "The issue is still open, which sharply increases risk.")
	}
	return out
}

func visitVerdict(level Level) string {
	switch level {
	case LevelSafe:
		return "shows satisfactory engagement."
	case LevelAtRisk:
		return "needs attention to protect retention."
	default:
		return "is problematic and needs urgent action."
	}
}

func describeCustomer(c Customer) string {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	if c.Car.Model == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, c.Car.Model)
}

func (e *Engine) money(v float64) string {
	return e.cfg.CurrencySymbol + strconv.FormatFloat(v, 'f', -1, 64)
}

func pct(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 0, 64) + "%"
}
