// Package chrono orders device events by time.
package chrono

import (
	"sort"

	"cpapstat/cpapstat/defs"
)

// SortKey is the DateTime string followed by a discriminant digit. Pressure records get
// "1" so they come after any other event logged at the same second.
func SortKey(r defs.Record) string {
	if r.IsPressure() {
		return r[defs.DateTimeField] + "1"
	}
	return r[defs.DateTimeField] + "0"
}

// Sort returns a stably sorted copy of records; records is left untouched.
func Sort(records []defs.Record) []defs.Record {
	sorted := make([]defs.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return SortKey(sorted[i]) < SortKey(sorted[j])
	})
	return sorted
}
