// Package binning maps raw pressure readings onto report buckets.
package binning

import (
	"fmt"
	"strings"

	"cpapstat/cpapstat/defs"

	"github.com/shopspring/decimal"
)

// Binner turns a pressure value into a bucket key and orders keys for reporting.
// A run uses exactly one Binner for every pressure record.
type Binner interface {
	Bin(raw string) (Reading, error)
	Less(a, b string) bool
	Name() string
}

// Reading is a parsed pressure value and the bucket it falls in.
type Reading struct {
	Key   string
	Value decimal.Decimal
}

func New(policy, size string) (Binner, error) {
	switch policy {
	case defs.DecimalPolicy:
		return NewDecimal(size)
	case defs.TruncatePolicy:
		return Truncate{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", defs.ErrUnknownPolicy, policy)
	}
}

// Decimal bins values to floor(value/size)*size using exact decimal arithmetic.
// Keys carry as many fractional digits as the bin size.
type Decimal struct {
	Size   decimal.Decimal
	places int32
}

func NewDecimal(size string) (*Decimal, error) {
	d, err := defs.ParseBinSize(size)
	if err != nil {
		return nil, err
	}

	var places int32
	if d.Exponent() < 0 {
		places = -d.Exponent()
	}
	return &Decimal{Size: d, places: places}, nil
}

func (b *Decimal) Bin(raw string) (Reading, error) {
	v, err := parsePressure(raw)
	if err != nil {
		return Reading{}, err
	}

	q, r := v.QuoRem(b.Size, 0)
	if r.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return Reading{Key: q.Mul(b.Size).StringFixed(b.places), Value: v}, nil
}

func (b *Decimal) Less(x, y string) bool {
	dx, errX := decimal.NewFromString(x)
	dy, errY := decimal.NewFromString(y)
	if errX != nil || errY != nil {
		return x < y
	}
	return dx.LessThan(dy)
}

func (b *Decimal) Name() string {
	return defs.DecimalPolicy + " " + b.Size.String()
}

// Truncate keys a value by its integer digits, taken verbatim from the input.
// Keys sort as strings, so "10" comes before "9".
type Truncate struct{}

func (Truncate) Bin(raw string) (Reading, error) {
	v, err := parsePressure(raw)
	if err != nil {
		return Reading{}, err
	}
	key, _, _ := strings.Cut(strings.TrimSpace(raw), ".")
	return Reading{Key: key, Value: v}, nil
}

func (Truncate) Less(x, y string) bool {
	return x < y
}

func (Truncate) Name() string {
	return defs.TruncatePolicy
}

func parsePressure(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unable to parse pressure %q: %w", raw, err)
	}
	return v, nil
}
