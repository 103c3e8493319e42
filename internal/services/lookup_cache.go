package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/pokeprice/internal/models"
)

// LookupCacheService persists successful card lookups in SQLite
type LookupCacheService struct {
	db *gorm.DB
}

// NewLookupCacheService creates a cache backed by db
func NewLookupCacheService(db *gorm.DB) *LookupCacheService {
	return &LookupCacheService{db: db}
}

// Get returns the cached lookup for query if it was fetched within maxAge.
// A missing or stale entry returns nil without error.
func (s *LookupCacheService) Get(query string, maxAge time.Duration) (*models.CachedCard, error) {
	var cached models.CachedCard
	err := s.db.Where("query = ?", query).First(&cached).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Since(cached.FetchedAt) >= maxAge {
		return nil, nil
	}
	return &cached, nil
}

// Save upserts the lookup result for query
func (s *LookupCacheService) Save(query string, card *models.CardRecord, fetchedAt time.Time) error {
	cached := models.NewCachedCard(query, card, fetchedAt)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"card_id", "name", "set_name", "set_series", "thumbnail_url", "tcgplayer_url", "price", "fetched_at", "updated_at",
		}),
	}).Create(&cached).Error
}

// Count returns the number of cached lookups
func (s *LookupCacheService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.CachedCard{}).Count(&count).Error
	return count, err
}
