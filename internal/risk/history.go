package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const noVisitsExplanation = "No visits recorded."

// customerSignals are the raw statistics and normalized signals of one
// customer's visit history.
type customerSignals struct {
	visits         int
	lastVisit      time.Time
	daysSince      int
	avgDelay       float64
	avgVisitScore  float64
	avgStars       float64 // missing feedback counts as 0 stars
	ratedVisits    int
	avgRatedStars  float64
	missing        int
	repeatTotal    int
	unresolved     int
	recentLevels   []Level
	delayNorm      float64
	visitScoreNorm float64
	feedbackNorm   float64
	missingNorm    float64
	repeatNorm     float64
	unresolvedNorm float64
	recencyNorm    float64
}

func (e *Engine) customerSignals(visits []Visit, now time.Time) (customerSignals, error) {
	ordered := make([]Visit, len(visits))
	copy(ordered, visits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].VisitDate.Before(ordered[j].VisitDate)
	})

	var (
		s        = customerSignals{visits: len(ordered)}
		delaySum float64
		scoreSum float64
		starSum  int
	)
	levels := make([]Level, 0, len(ordered))
	for _, v := range ordered {
		a, err := e.ScoreVisit(v)
		if err != nil {
			return customerSignals{}, err
		}
		levels = append(levels, a.Level)
		scoreSum += a.Score
		delaySum += float64(v.ServiceDelayInDays)
		if v.Feedback.Provided {
			starSum += v.Feedback.Stars
			s.ratedVisits++
		} else {
			s.missing++
		}
		s.repeatTotal += v.RepeatIssues
		if !v.WasIssueResolved {
			s.unresolved++
		}
	}

	n := float64(s.visits)
	s.lastVisit = ordered[len(ordered)-1].VisitDate
	s.daysSince = daysBetween(s.lastVisit, now)
	s.avgDelay = delaySum / n
	s.avgVisitScore = scoreSum / n
	s.avgStars = float64(starSum) / n
	if s.ratedVisits > 0 {
		s.avgRatedStars = float64(starSum) / float64(s.ratedVisits)
	}
	if len(levels) > 3 {
		levels = levels[len(levels)-3:]
	}
	s.recentLevels = levels

	repeatCap := e.cfg.MaxRepeatIssues * s.visits
	s.delayNorm = clamp01(s.avgDelay / float64(e.cfg.MaxDelayDays))
	s.visitScoreNorm = clamp01(s.avgVisitScore / 100)
	s.feedbackNorm = clamp01((float64(e.cfg.MaxFeedbackStars) - s.avgStars) / float64(e.cfg.MaxFeedbackStars))
	s.missingNorm = ratio(s.missing, s.visits)
	s.repeatNorm = ratio(min(s.repeatTotal, repeatCap), repeatCap)
	s.unresolvedNorm = ratio(s.unresolved, s.visits)
	s.recencyNorm = ratio(min(s.daysSince, e.cfg.RecencyWindowDays), e.cfg.RecencyWindowDays)
	return s, nil
}

func (e *Engine) historyRisk(s customerSignals) float64 {
	w := e.cfg.HistoryWeights
	return s.delayNorm*w.AvgDelay +
		s.visitScoreNorm*w.AvgVisitScore +
		s.feedbackNorm*w.AvgFeedback +
		s.missingNorm*w.MissingFeedback +
		s.repeatNorm*w.Repeat +
		s.unresolvedNorm*w.Unresolved +
		s.recencyNorm*w.Recency
}

// daysBetween returns whole days from then to now, never negative.
func daysBetween(then, now time.Time) int {
	d := now.Sub(then)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / 24))
}

// AggregateCustomer scores a customer's whole visit history as of now.
// An empty history yields the CRITICAL zero-score sentinel.
func (e *Engine) AggregateCustomer(c Customer, visits []Visit, now time.Time) (Assessment, error) {
	if len(visits) == 0 {
		return emptyAssessment(noVisitsExplanation, "No visits yet. Reach out to get first feedback."), nil
	}
	s, err := e.customerSignals(visits, now)
	if err != nil {
		return Assessment{}, err
	}
	score := toScore(e.historyRisk(s))
	level := e.LevelFor(score)
	positives, concerns := e.customerFindings(s)

	return Assessment{
		Score:       score,
		Level:       level,
		Explanation: e.customerExplanation(c, s, score, level),
		Positives:   positives,
		Concerns:    concerns,
		Suggestions: e.customerSuggestions(s, level),
	}, nil
}

func emptyAssessment(explanation, suggestion string) Assessment {
	return Assessment{
		Score:       0,
		Level:       LevelCritical,
		Explanation: explanation,
		Positives:   []string{},
		Concerns:    []string{},
		Suggestions: []string{suggestion},
	}
}

func (e *Engine) customerFindings(s customerSignals) (positives, concerns []string) {
	positives, concerns = []string{}, []string{}

	if s.unresolved == 0 {
		positives = append(positives, "All Issues Resolved")
	} else {
		concerns = append(concerns, fmt.Sprintf("Unresolved Visits: %d/%d", s.unresolved, s.visits))
	}
	if s.missing == 0 {
		positives = append(positives, "Feedback On Every Visit")
	} else {
		concerns = append(concerns, fmt.Sprintf("Visits Without Feedback: %d/%d", s.missing, s.visits))
	}
	switch {
	case s.ratedVisits > 0 && s.avgRatedStars >= 4:
		positives = append(positives, fmt.Sprintf("High Average Feedback: %.1f/%d", s.avgRatedStars, e.cfg.MaxFeedbackStars))
	case s.ratedVisits > 0 && s.avgRatedStars < 3:
		concerns = append(concerns, fmt.Sprintf("Low Average Feedback: %.1f/%d", s.avgRatedStars, e.cfg.MaxFeedbackStars))
	}
	if s.avgDelay <= 1 {
		positives = append(positives, "Quick Service Turnaround")
	} else {
		concerns = append(concerns, fmt.Sprintf("Average Service Delay: %.1f days", s.avgDelay))
	}
	if s.repeatTotal == 0 {
		positives = append(positives, "No Repeat Issues")
	} else {
		concerns = append(concerns, fmt.Sprintf("Repeat Issues: %d", s.repeatTotal))
	}
	if s.daysSince > e.cfg.RecencyWindowDays/2 {
		concerns = append(concerns, fmt.Sprintf("No Visit In %d Days", s.daysSince))
	}
	return positives, concerns
}

func (e *Engine) customerSuggestions(s customerSignals, level Level) []string {
	var out []string
	switch level {
	case LevelCritical:
		out = append(out, "Contact the customer for urgent satisfaction recovery.")
	case LevelAtRisk:
		out = append(out, "Follow up, review the major issues and offer a retention incentive.")
	default:
		out = append(out, "Maintain regular touchpoints and reward loyalty.")
	}
	if s.unresolved > 0 {
		out = append(out, "Close out every unresolved issue before the next visit.")
	}
	if s.missing > 0 {
		out = append(out, "Ask for feedback after each service visit.")
	}
	if s.daysSince > e.cfg.RecencyWindowDays/2 {
		out = append(out, fmt.Sprintf("Send a service reminder, the last visit was %d days ago.", s.daysSince))
	}
	return out
}

func (e *Engine) customerExplanation(c Customer, s customerSignals, score float64, level Level) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer Risk Score: %.0f/100 (%s)\n", score, level.Label())
	if c.ID != "" || c.Name != "" {
		fmt.Fprintf(&b, "Customer: %s\n", describeCustomer(c))
	}
	b.WriteString("Breakdown:\n")
	fmt.Fprintf(&b, "- Average Visit Risk: %.1f/100 (last visit %s)\n", s.avgVisitScore, s.lastVisit.Format(dateLayout))
	fmt.Fprintf(&b, "- Average Service Delay: %.1f days\n", s.avgDelay)
	fmt.Fprintf(&b, "- Average Feedback: %.1f/%d (missing counts as 0)\n", s.avgStars, e.cfg.MaxFeedbackStars)
	fmt.Fprintf(&b, "- Visits Without Feedback: %d/%d\n", s.missing, s.visits)
	fmt.Fprintf(&b, "- Total Repeat Issues: %d\n", s.repeatTotal)
	fmt.Fprintf(&b, "- Unresolved Visits: %d/%d\n", s.unresolved, s.visits)
	fmt.Fprintf(&b, "- Days Since Last Visit: %d\n", s.daysSince)

	labels := make([]string, len(s.recentLevels))
	for i, l := range s.recentLevels {
		labels[i] = l.Label()
	}
	fmt.Fprintf(&b, "Across %d visit(s), the most recent levels were %s. ", s.visits, strings.Join(labels, ", "))
	b.WriteString(customerVerdict(level))
	return b.String()
}

func customerVerdict(level Level) string {
	switch level {
	case LevelSafe:
		return "This customer is consistently well served."
	case LevelAtRisk:
		return "This customer shows warning signs and needs follow-up."
	default:
		return "This customer is likely to churn without intervention."
	}
}
