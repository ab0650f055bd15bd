package defs

import (
	"errors"
	"fmt"
	"time"
)

// Column names of a device event export.
const (
	DateTimeField = "DateTime"
	EventField    = "Event"
	SessionField  = "Session"
	DataField     = "Data/Duration"
)

const (
	PressureEvent  = "Pressure"
	DateTimeLayout = "2006-01-02T15:04:05"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrUnknownPolicy = errors.New("unknown binning policy")
	ErrBadBinSize    = errors.New("bin size must be a positive number")
)

// Record is one data row of the export, keyed by header column.
type Record map[string]string

// Field returns the value of a column, or ErrMissingField if the row has no such column.
func (r Record) Field(name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingField, name)
	}
	return v, nil
}

func (r Record) IsPressure() bool {
	return r[EventField] == PressureEvent
}

type Aggregate struct {
	Duration    time.Duration
	EventCounts map[string]int
}

// Total returns the number of clinical events counted in the bucket.
func (a *Aggregate) Total() int {
	total := 0
	for _, n := range a.EventCounts {
		total += n
	}
	return total
}

// Summary is the result of one aggregation run.
type Summary struct {
	Buckets    map[string]*Aggregate
	EventTypes []string
	Pressures  []float64
	Dropped    int

	seen map[string]bool
}

func NewSummary(baseline []string) *Summary {
	s := &Summary{
		Buckets: make(map[string]*Aggregate),
		seen:    make(map[string]bool),
	}
	for _, et := range baseline {
		s.AddEventType(et)
	}
	return s
}

// Bucket returns the aggregate for key, creating it on first use.
func (s *Summary) Bucket(key string) *Aggregate {
	agg, ok := s.Buckets[key]
	if !ok {
		agg = &Aggregate{EventCounts: make(map[string]int)}
		s.Buckets[key] = agg
	}
	return agg
}

// AddEventType registers an event type column, keeping first-seen order.
func (s *Summary) AddEventType(et string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[et] {
		return
	}
	s.seen[et] = true
	s.EventTypes = append(s.EventTypes, et)
}

func (s *Summary) TotalDuration() time.Duration {
	var total time.Duration
	for _, agg := range s.Buckets {
		total += agg.Duration
	}
	return total
}
