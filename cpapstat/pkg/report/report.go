package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cpapstat/cpapstat/defs"

	"go.uber.org/multierr"
)

const (
	PressureHeader = "Pressure"
	HoursHeader    = "Hours"
	MinutesHeader  = "Minutes"
	RateHeader     = "Events/h"
)

// KeyOrder reports whether bucket key a sorts before b.
type KeyOrder func(a, b string) bool

type Reporter struct {
	Less   KeyOrder
	Unit   string
	Format string
	Rates  bool

	// Stdout receives the report when no file is named.
	Stdout io.Writer
}

func New(less KeyOrder, cfg defs.ReportConfig) *Reporter {
	if less == nil {
		less = func(a, b string) bool { return a < b }
	}
	return &Reporter{Less: less, Unit: cfg.Unit, Format: cfg.Format, Rates: cfg.Rates, Stdout: os.Stdout}
}

// Rows returns the header followed by one row per bucket, ascending by key.
func (r *Reporter) Rows(s *defs.Summary) [][]string {
	header := []string{PressureHeader, r.durationHeader()}
	if r.Rates {
		header = append(header, RateHeader)
	}
	header = append(header, s.EventTypes...)

	keys := make([]string, 0, len(s.Buckets))
	for k := range s.Buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return r.Less(keys[i], keys[j]) })

	rows := [][]string{header}
	for _, k := range keys {
		agg := s.Buckets[k]
		row := []string{k, r.formatDuration(agg.Duration)}
		if r.Rates {
			row = append(row, formatRate(agg))
		}
		for _, et := range s.EventTypes {
			row = append(row, strconv.Itoa(agg.EventCounts[et]))
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *Reporter) Write(w io.Writer, s *defs.Summary) error {
	rows := r.Rows(s)
	if r.Format == defs.TableFormat {
		_, err := io.WriteString(w, table(rows))
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, or to stdout when path is empty.
func (r *Reporter) WriteFile(path string, s *defs.Summary) (err error) {
	if path == "" {
		return r.Write(r.Stdout, s)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create report file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	return r.Write(file, s)
}

func (r *Reporter) durationHeader() string {
	if r.Unit == defs.MinutesUnit {
		return MinutesHeader
	}
	return HoursHeader
}

func (r *Reporter) formatDuration(d time.Duration) string {
	if r.Unit == defs.MinutesUnit {
		return strconv.FormatFloat(d.Minutes(), 'f', -1, 64)
	}
	return strconv.FormatFloat(d.Hours(), 'f', 3, 64)
}

func formatRate(agg *defs.Aggregate) string {
	hours := agg.Duration.Hours()
	if hours <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(agg.Total())/hours, 'f', 2, 64)
}

// table lays rows out in right-aligned columns, first column left-aligned.
func table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
			if i == 0 {
				b.WriteString(cell + pad)
				continue
			}
			b.WriteString("  " + pad + cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}
