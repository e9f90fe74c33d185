package risk

import "testing"

func BenchmarkScoreVisit(b *testing.B) {
	e := mustEngine()
	v := worstVisit("bench", day0)

	for b.Loop() {
		if _, err := e.ScoreVisit(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRollup(b *testing.B) {
	e := mustEngine()
	visits := make([]Visit, 0, 500)
	for i := range 500 {
		v := worstVisit("v", day0.AddDate(0, 0, i%90))
		v.CustomerID = string(rune('a' + i%26))
		v.ServiceDelayInDays = i % 31
		visits = append(visits, v)
	}

	for b.Loop() {
		if _, err := e.Rollup(drivemax, nil, visits, day0.AddDate(0, 6, 0)); err != nil {
			b.Fatal(err)
		}
	}
}
