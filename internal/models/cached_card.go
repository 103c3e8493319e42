package models

import (
	"time"
)

// CachedCard is a successful card lookup kept in SQLite, keyed by the query
// that produced it. Misses are never stored.
type CachedCard struct {
	Query        string    `json:"query" gorm:"primaryKey"`
	CardID       string    `json:"card_id" gorm:"index"`
	Name         string    `json:"name" gorm:"not null"`
	SetName      string    `json:"set_name"`
	SetSeries    string    `json:"set_series"`
	ThumbnailURL string    `json:"thumbnail_url"`
	TCGPlayerURL string    `json:"tcgplayer_url" gorm:"column:tcgplayer_url"`
	Price        *float64  `json:"price"`
	FetchedAt    time.Time `json:"fetched_at" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCachedCard builds the cache row for a lookup result
func NewCachedCard(query string, card *CardRecord, fetchedAt time.Time) CachedCard {
	cached := CachedCard{
		Query:        query,
		CardID:       card.ID,
		Name:         card.Name,
		SetName:      card.SetName,
		SetSeries:    card.SetSeries,
		ThumbnailURL: card.ThumbnailURL,
		TCGPlayerURL: card.TCGPlayerURL,
		FetchedAt:    fetchedAt,
	}
	if card.Price != nil {
		p := *card.Price
		cached.Price = &p
	}
	return cached
}

// Record converts the cache row back into a card record
func (c *CachedCard) Record() *CardRecord {
	rec := &CardRecord{
		ID:           c.CardID,
		Name:         c.Name,
		SetName:      c.SetName,
		SetSeries:    c.SetSeries,
		ThumbnailURL: c.ThumbnailURL,
		TCGPlayerURL: c.TCGPlayerURL,
	}
	if c.Price != nil {
		p := *c.Price
		rec.Price = &p
	}
	return rec
}
