package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPriceBasis anchors the trend chart when a card has no usable price.
const DefaultPriceBasis = 10.0

// PriceUnavailable is shown in place of a price when the card has none.
const PriceUnavailable = "N/A"

// CardRecord is the single card shown by an overlay. It is replaced wholesale
// on every search, never merged.
type CardRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SetName      string   `json:"set_name"`
	SetSeries    string   `json:"set_series"`
	ThumbnailURL string   `json:"thumbnail_url"`
	TCGPlayerURL string   `json:"tcgplayer_url,omitempty"`
	Price        *float64 `json:"price,omitempty"` // TCGPlayer market, else mid; nil when unpriced
}

// HasPrice reports whether the card carries a usable price
func (c *CardRecord) HasPrice() bool {
	return c != nil && c.Price != nil && *c.Price > 0
}

// SetLabel renders the set line of the panel, e.g. "Base (Base)"
func (c *CardRecord) SetLabel() string {
	if c == nil {
		return ""
	}
	if c.SetSeries == "" {
		return c.SetName
	}
	return fmt.Sprintf("%s (%s)", c.SetName, c.SetSeries)
}

// PriceText formats the price for display ("$120.50"), or "N/A" when absent.
// Rounding is half away from zero on the shortest decimal form, so 1.005
// gives "$1.01" where a binary toFixed(2) would give "$1.00".
func (c *CardRecord) PriceText() string {
	if !c.HasPrice() {
		return PriceUnavailable
	}
	return "$" + decimal.NewFromFloat(*c.Price).StringFixed(2)
}

// PriceBasis is the price the synthetic trend is anchored at.
func (c *CardRecord) PriceBasis() float64 {
	if !c.HasPrice() {
		return DefaultPriceBasis
	}
	return *c.Price
}

// Clone returns a deep copy so callers can hold a record without sharing the price pointer.
func (c *CardRecord) Clone() *CardRecord {
	if c == nil {
		return nil
	}
	out := *c
	if c.Price != nil {
		p := *c.Price
		out.Price = &p
	}
	return &out
}
