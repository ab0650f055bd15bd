package aggregator

import (
	"fmt"
	"time"

	"cpapstat/cpapstat/defs"
	"cpapstat/cpapstat/pkg/binning"

	"go.uber.org/zap"
)

const noPressureMsg = "found event with no pressure"

type Aggregator struct {
	Binner   binning.Binner
	Baseline []string
	Logger   *zap.Logger
}

func New(b binning.Binner, baseline []string, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{Binner: b, Baseline: baseline, Logger: logger}
}

// cursor tracks the pressure bucket in effect for the session being walked.
type cursor struct {
	bucket  string
	time    time.Time
	session string
	valid   bool
}

func (c *cursor) inSession(session string) bool {
	return c.valid && c.session == session
}

// Aggregate walks chronologically ordered records once. Time between two pressure
// records of the same session goes to the earlier record's bucket; every other event is
// counted in the bucket active in its session, or dropped with a warning when its
// session has no pressure yet.
func (a *Aggregator) Aggregate(records []defs.Record) (*defs.Summary, error) {
	summary := defs.NewSummary(a.Baseline)
	var cur cursor

	for i, rec := range records {
		ts, err := parseTime(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		session, err := rec.Field(defs.SessionField)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		event, err := rec.Field(defs.EventField)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		if event == defs.PressureEvent {
			raw, err := rec.Field(defs.DataField)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
			reading, err := a.Binner.Bin(raw)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
			summary.Pressures = append(summary.Pressures, reading.Value.InexactFloat64())

			if cur.inSession(session) {
				summary.Bucket(cur.bucket).Duration += ts.Sub(cur.time)
			}
			cur = cursor{bucket: reading.Key, time: ts, session: session, valid: true}
			continue
		}

		summary.AddEventType(event)
		if !cur.inSession(session) {
			a.Logger.Warn(noPressureMsg,
				zap.String("time", rec[defs.DateTimeField]),
				zap.String("session", session),
				zap.String("event", event),
				zap.Any("record", rec),
			)
			summary.Dropped++
			continue
		}

		summary.Bucket(cur.bucket).EventCounts[event]++
	}

	a.Logger.Debug("aggregated events",
		zap.String("binning", a.Binner.Name()),
		zap.Int("records", len(records)),
		zap.Int("buckets", len(summary.Buckets)),
		zap.Int("dropped", summary.Dropped),
	)

	return summary, nil
}

func parseTime(rec defs.Record) (time.Time, error) {
	raw, err := rec.Field(defs.DateTimeField)
	if err != nil {
		return time.Time{}, err
	}
	// time.Parse also accepts fractional seconds after the layout.
	if len(raw) != len(defs.DateTimeLayout) {
		return time.Time{}, fmt.Errorf("unable to parse time %q: want layout %s", raw, defs.DateTimeLayout)
	}
	ts, err := time.Parse(defs.DateTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse time %q: %w", raw, err)
	}
	return ts, nil
}
