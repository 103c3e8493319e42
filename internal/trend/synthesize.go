// Package trend generates the price history drawn on the overlay chart.
//
// The history is NOT real market data. It is an illustrative backward random
// walk anchored at the card's current price, regenerated on every call. Any
// consumer displaying it must present it as a visual placeholder.
package trend

import (
	"math/rand"
)

const (
	// PointsPerMonth is the number of synthetic samples per month of range
	PointsPerMonth = 10

	// MinPrice is the floor every generated price is clamped to
	MinPrice = 0.01

	// stepVolatility scales the per-step relative move (+/- 5%)
	stepVolatility = 0.1
)

// Series is an oldest-first sequence of prices
type Series []float64

// First returns the oldest price, or 0 for an empty series
func (s Series) First() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// Last returns the newest price, or 0 for an empty series
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Rising reports whether the series ends at or above where it started
func (s Series) Rising() bool {
	return s.Last() >= s.First()
}

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Synthesize returns months*PointsPerMonth prices ending exactly at currentPrice.
func Synthesize(currentPrice float64, months int) Series {
	return SynthesizeWith(globalSource{}, currentPrice, months)
}

// SynthesizeWith is Synthesize drawing from src. Each earlier point moves the
// price by (U - 0.5) * 0.1 * price and is clamped to MinPrice.
// A currentPrice below MinPrice anchors the walk at MinPrice instead.
func SynthesizeWith(src Source, currentPrice float64, months int) Series {
	points := months * PointsPerMonth
	if points <= 0 {
		return Series{}
	}

	price := currentPrice
	if !(price >= MinPrice) {
		price = MinPrice
	}

	// Filled newest to oldest
	data := make(Series, points)
	data[points-1] = price
	for i := points - 2; i >= 0; i-- {
		price += (src.Float64() - 0.5) * stepVolatility * price
		if price < MinPrice {
			price = MinPrice
		}
		data[i] = price
	}

	return data
}
