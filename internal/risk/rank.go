package risk

import "sort"

// RankVisits returns a copy of scored ordered worst first. Equal scores put
// the more recent visit first. A limit <= 0 keeps every entry.
func RankVisits(scored []ScoredVisit, limit int) []ScoredVisit {
	out := make([]ScoredVisit, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Assessment.Score != b.Assessment.Score {
			return a.Assessment.Score > b.Assessment.Score
		}
		return a.Visit.VisitDate.After(b.Visit.VisitDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankCustomers orders customers worst first, breaking ties by the most
// recent visit and then by ID.
func RankCustomers(customers []CustomerRisk) []CustomerRisk {
	out := make([]CustomerRisk, len(customers))
	copy(out, customers)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Assessment.Score != b.Assessment.Score {
			return a.Assessment.Score > b.Assessment.Score
		}
		if !a.LastVisit.Equal(b.LastVisit) {
			return a.LastVisit.After(b.LastVisit)
		}
		return a.Customer.ID < b.Customer.ID
	})
	return out
}
