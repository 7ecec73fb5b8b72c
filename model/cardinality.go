package model

import (
	"strconv"
	"strings"

	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/internal/util"
)

// Cardinality bounds the number of occurrences of a field.
// A nil Max means unbounded.
type Cardinality struct {
	Min int
	Max *int
}

// DefaultCardinality is the implicit cardinality of a field: 0..1
var DefaultCardinality = Cardinality{Min: 0, Max: util.Ptr(1)}

// NewCardinality creates a bounded cardinality
func NewCardinality(min, max int) Cardinality {
	return Cardinality{Min: min, Max: util.Ptr(max)}
}

// Unbounded creates a cardinality with no upper bound
func Unbounded(min int) Cardinality {
	return Cardinality{Min: min}
}

// ParseCardinality parses "min..max" or "min..*"
func ParseCardinality(s string) (Cardinality, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "..")
	if !ok {
		return Cardinality{}, errors.Newf("cardinality %q: expected min..max", s)
	}
	min, err := strconv.Atoi(lo)
	if err != nil || min < 0 {
		return Cardinality{}, errors.Newf("cardinality %q: invalid minimum", s)
	}
	if hi == "*" || hi == "" {
		return Unbounded(min), nil
	}
	max, err := strconv.Atoi(hi)
	if err != nil || max < min {
		return Cardinality{}, errors.Newf("cardinality %q: invalid maximum", s)
	}
	return NewCardinality(min, max), nil
}

// IsUnbounded reports whether there is no upper bound
func (c Cardinality) IsUnbounded() bool {
	return c.Max == nil
}

// IsMandatory reports whether at least one occurrence is required
func (c Cardinality) IsMandatory() bool {
	return c.Min >= 1
}

// IsDefault reports whether the cardinality is exactly 0..1
func (c Cardinality) IsDefault() bool {
	return c.Min == 0 && c.Max != nil && *c.Max == 1
}

// String returns min..max, or min..* when unbounded
func (c Cardinality) String() string {
	if c.Max == nil {
		return strconv.Itoa(c.Min) + "..*"
	}
	return strconv.Itoa(c.Min) + ".." + strconv.Itoa(*c.Max)
}
