package risk

import (
	"fmt"
	"strings"
	"time"
)

const noCustomersExplanation = "No customers or visits recorded for this dealership so far."

// AggregateDealership scores a dealership as the mean of its customers'
// aggregate scores. Visits are grouped by CustomerID.
func (e *Engine) AggregateDealership(d Dealership, visits []Visit, now time.Time) (Assessment, error) {
	r, err := e.Rollup(d, nil, visits, now)
	if err != nil {
		return Assessment{}, err
	}
	return r.Assessment, nil
}

// Rollup builds the dealership aggregate together with its per-customer
// breakdown and worst visits. customers only supplies names and cars for
// the breakdown; a customer with no visits in visits is not counted.
func (e *Engine) Rollup(d Dealership, customers []Customer, visits []Visit, now time.Time) (Rollup, error) {
	if len(visits) == 0 {
		return Rollup{
			Dealership:  d,
			Assessment:  emptyAssessment(noCustomersExplanation, "Increase outreach to attract first customers."),
			Customers:   []CustomerRisk{},
			WorstVisits: []ScoredVisit{},
		}, nil
	}

	known := make(map[string]Customer, len(customers))
	for _, c := range customers {
		known[c.ID] = c
	}

	order := make([]string, 0)
	groups := make(map[string][]Visit)
	for _, v := range visits {
		if _, ok := groups[v.CustomerID]; !ok {
			order = append(order, v.CustomerID)
		}
		groups[v.CustomerID] = append(groups[v.CustomerID], v)
	}

	risks := make([]CustomerRisk, 0, len(order))
	var sum float64
	for _, id := range order {
		c, ok := known[id]
		if !ok {
			c = Customer{ID: id}
		}
		group := groups[id]
		a, err := e.AggregateCustomer(c, group, now)
		if err != nil {
			return Rollup{}, err
		}
		sum += a.Score
		risks = append(risks, CustomerRisk{
			Customer:   c,
			VisitCount: len(group),
			LastVisit:  latestVisit(group),
			Assessment: a,
		})
	}

	scored, err := e.ScoreVisits(visits)
	if err != nil {
		return Rollup{}, err
	}
	flagged := make([]ScoredVisit, 0, len(scored))
	for _, sv := range scored {
		if sv.Assessment.Level != LevelSafe {
			flagged = append(flagged, sv)
		}
	}

	score := sum / float64(len(risks))
	level := e.LevelFor(score)
	risks = RankCustomers(risks)
	t := tally(risks, scored)

	return Rollup{
		Dealership: d,
		Assessment: Assessment{
			Score:       score,
			Level:       level,
			Explanation: dealershipExplanation(d, risks, t, score, level),
			Positives:   t.positives(),
			Concerns:    t.concerns(),
			Suggestions: dealershipSuggestions(level, t),
		},
		Customers:   risks,
		WorstVisits: RankVisits(flagged, e.cfg.WorstVisitsLimit),
	}, nil
}

func latestVisit(visits []Visit) time.Time {
	var last time.Time
	for _, v := range visits {
		if v.VisitDate.After(last) {
			last = v.VisitDate
		}
	}
	return last
}

type levelTally struct {
	customers      map[Level]int
	customerCount  int
	visits         map[Level]int
	visitCount     int
	unresolved     int
	missingRatings int
}

func tally(risks []CustomerRisk, scored []ScoredVisit) levelTally {
	t := levelTally{
		customers:     make(map[Level]int),
		customerCount: len(risks),
		visits:        make(map[Level]int),
		visitCount:    len(scored),
	}
	for _, r := range risks {
		t.customers[r.Assessment.Level]++
	}
	for _, sv := range scored {
		t.visits[sv.Assessment.Level]++
		if !sv.Visit.WasIssueResolved {
			t.unresolved++
		}
		if !sv.Visit.Feedback.Provided {
			t.missingRatings++
		}
	}
	return t
}

func (t levelTally) positives() []string {
	out := []string{}
	if n := t.customers[LevelSafe]; n == t.customerCount {
		out = append(out, "All Customers Safe")
	} else if n > 0 {
		out = append(out, fmt.Sprintf("Safe Customers: %d/%d", n, t.customerCount))
	}
	if t.unresolved == 0 {
		out = append(out, "Every Visit Resolved")
	}
	return out
}

func (t levelTally) concerns() []string {
	out := []string{}
	if n := t.customers[LevelCritical]; n > 0 {
		out = append(out, fmt.Sprintf("Critical Customers: %d/%d", n, t.customerCount))
	}
	if n := t.customers[LevelAtRisk]; n > 0 {
		out = append(out, fmt.Sprintf("At-Risk Customers: %d/%d", n, t.customerCount))
	}
	if n := t.visits[LevelCritical]; n > 0 {
		out = append(out, fmt.Sprintf("Critical Visits: %d/%d", n, t.visitCount))
	}
	if t.unresolved > 0 {
		out = append(out, fmt.Sprintf("Unresolved Visits: %d/%d", t.unresolved, t.visitCount))
	}
	if t.missingRatings > 0 {
		out = append(out, fmt.Sprintf("Visits Without Feedback: %d/%d", t.missingRatings, t.visitCount))
	}
	return out
}

func dealershipSuggestions(level Level, t levelTally) []string {
	var out []string
	switch level {
	case LevelCritical:
		out = append(out, "Run intensive QA, staff retraining or a management review immediately.")
	case LevelAtRisk:
		out = append(out, "Analyze the negative visits, build on what works and engage customers proactively.")
	default:
		out = append(out, "Keep up the high service standards.")
	}
	if t.customers[LevelCritical] > 0 {
		out = append(out, "Call every CRITICAL customer this week.")
	}
	if t.missingRatings > 0 {
		out = append(out, "Collect feedback at vehicle handover.")
	}
	return out
}

func dealershipExplanation(d Dealership, risks []CustomerRisk, t levelTally, score float64, level Level) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dealership Risk Score: %.1f/100 (%s)\n", score, level.Label())
	if name := describeDealership(d); name != "" {
		fmt.Fprintf(&b, "Dealership: %s\n", name)
	}
	fmt.Fprintf(&b, "Average risk across %d customer(s) and %d visit(s).\n", t.customerCount, t.visitCount)
	fmt.Fprintf(&b, "Customer Risk Breakdown: SAFE: %d, AT RISK: %d, CRITICAL: %d\n",
		t.customers[LevelSafe], t.customers[LevelAtRisk], t.customers[LevelCritical])
	for _, r := range risks {
		fmt.Fprintf(&b, "- %s: %.0f/100 (%s)\n", describeCustomer(r.Customer), r.Assessment.Score, r.Assessment.Level.Label())
	}
	fmt.Fprintf(&b, "Out of %d visit(s), %d were CRITICAL and %d AT RISK. ",
		t.visitCount, t.visits[LevelCritical], t.visits[LevelAtRisk])
	b.WriteString(dealershipVerdict(level))
	return b.String()
}

func describeDealership(d Dealership) string {
	name := d.Company
	if name == "" {
		name = d.UniqueName
	}
	if name == "" {
		name = d.ID
	}
	if d.Address != "" && name != "" {
		return fmt.Sprintf("%s, %s", name, d.Address)
	}
	return name
}

func dealershipVerdict(level Level) string {
	switch level {
	case LevelSafe:
		return "Most customers have low risk scores, which reflects consistently good service."
	case LevelAtRisk:
		return "Customer experience is average with warning signs for some customers. Delays, repeat issues and feedback need attention."
	default:
		return "Many customers are at high risk. Urgent action is needed to improve service quality and retention."
	}
}
