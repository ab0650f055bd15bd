package stats

import (
	"cpapstat/cpapstat/defs"

	"github.com/montanaflynn/stats"
)

type PressureStatistics struct {
	Readings int
	Mean     float64
	Median   float64
	P95      float64
	Max      float64

	Hours   float64
	Events  int
	Dropped int
}

// EventsPerHour is the clinical event rate over all aggregated therapy time.
func (ps PressureStatistics) EventsPerHour() float64 {
	if ps.Hours <= 0 {
		return 0
	}
	return float64(ps.Events) / ps.Hours
}

func PressureSummary(s *defs.Summary) PressureStatistics {
	ps := PressureStatistics{
		Readings: len(s.Pressures),
		Hours:    s.TotalDuration().Hours(),
		Dropped:  s.Dropped,
	}
	for _, agg := range s.Buckets {
		ps.Events += agg.Total()
	}

	if len(s.Pressures) == 0 {
		return ps
	}

	ps.Mean, _ = stats.Mean(s.Pressures)
	ps.Median, _ = stats.Median(s.Pressures)
	ps.Max, _ = stats.Max(s.Pressures)

	p95, err := stats.Percentile(s.Pressures, 95)
	if err != nil {
		p95 = ps.Max
	}
	ps.P95 = p95

	return ps
}
