package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cpapstat/cpapstat/defs"
)

const byteOrderMark = "\ufeff"

var ErrNoHeader = errors.New("input has no header row")

type Loader struct {
	Comma rune
}

func New(delimiter string) *Loader {
	comma := ','
	if r := []rune(delimiter); len(r) == 1 {
		comma = r[0]
	}
	return &Loader{Comma: comma}
}

// Load reads every row of the file at path into records, in file order.
func (l *Loader) Load(path string) ([]defs.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input: %w", err)
	}
	defer file.Close()

	return l.Read(file)
}

func (l *Loader) Read(r io.Reader) ([]defs.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.Comma

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], byteOrderMark)

	records := make([]defs.Record, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row: %w", err)
		}

		rec := make(defs.Record, len(header))
		for i, name := range header {
			rec[name] = row[i]
		}
		records = append(records, rec)
	}

	return records, nil
}
