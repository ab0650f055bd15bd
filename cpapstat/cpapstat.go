package cpapstat

import (
	"fmt"

	"cpapstat/cpapstat/defs"
	"cpapstat/cpapstat/pkg/aggregator"
	"cpapstat/cpapstat/pkg/binning"
	"cpapstat/cpapstat/pkg/chrono"
	"cpapstat/cpapstat/pkg/loader"
	"cpapstat/cpapstat/pkg/report"
	"cpapstat/cpapstat/pkg/stats"

	"go.uber.org/zap"
)

// Summarize loads the event log at input and aggregates it by pressure bucket.
func Summarize(cfg defs.Config, input string) (*defs.Summary, binning.Binner, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	binner, err := binning.New(cfg.Binning.Policy, cfg.Binning.Size)
	if err != nil {
		return nil, nil, err
	}

	records, err := loader.New(cfg.Input.Delimiter).Load(input)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded events", zap.String("file", input), zap.Int("records", len(records)))

	summary, err := aggregator.New(binner, cfg.Report.Baseline, logger).Aggregate(chrono.Sort(records))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to aggregate %s: %w", input, err)
	}

	return summary, binner, nil
}

// Run summarizes input and writes the report to the configured destination.
func Run(cfg defs.Config, input string) error {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	summary, binner, err := Summarize(cfg, input)
	if err != nil {
		return err
	}

	if err := report.New(binner.Less, cfg.Report).WriteFile(cfg.Report.Output, summary); err != nil {
		return err
	}

	ps := stats.PressureSummary(summary)
	logger.Info("pressure summary",
		zap.Int("readings", ps.Readings),
		zap.Float64("mean", ps.Mean),
		zap.Float64("median", ps.Median),
		zap.Float64("p95", ps.P95),
		zap.Float64("max", ps.Max),
		zap.Float64("hours", ps.Hours),
		zap.Int("events", ps.Events),
		zap.Float64("eventsPerHour", ps.EventsPerHour()),
		zap.Int("dropped", ps.Dropped),
	)

	return nil
}
