package models

import "fmt"

// Range is the lookback window selected on the overlay's chart tabs
type Range string

const (
	Range3M Range = "3m"
	Range6M Range = "6m"
	Range1Y Range = "1y"
)

// DefaultRange is drawn when a result is first shown
const DefaultRange = Range3M

// AllRanges returns the ranges in tab order
func AllRanges() []Range {
	return []Range{Range3M, Range6M, Range1Y}
}

// Months returns the number of months covered, or 0 for an unknown range.
func (r Range) Months() int {
	switch r {
	case Range3M:
		return 3
	case Range6M:
		return 6
	case Range1Y:
		return 12
	default:
		return 0
	}
}

// Label is the tab caption
func (r Range) Label() string {
	switch r {
	case Range3M:
		return "3 Mo"
	case Range6M:
		return "6 Mo"
	case Range1Y:
		return "1 Yr"
	default:
		return string(r)
	}
}

// ParseRange validates a range identifier coming from a client
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if r.Months() == 0 {
		return "", fmt.Errorf("unknown range %q", s)
	}
	return r, nil
}
