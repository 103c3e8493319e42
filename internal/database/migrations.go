package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/codyseavey/pokeprice/internal/metrics"
	"github.com/codyseavey/pokeprice/internal/models"
)

// PruneCachedCards deletes cached lookups fetched more than maxAge ago.
// Called by the cache pruner at startup and on every tick.
func PruneCachedCards(db *gorm.DB, maxAge time.Duration) (int64, error) {
	if !db.Migrator().HasTable(&models.CachedCard{}) {
		return 0, nil
	}

	result := db.Where("fetched_at < ?", time.Now().Add(-maxAge)).Delete(&models.CachedCard{})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Pruned %d expired cached card lookups", result.RowsAffected)
	}

	var remaining int64
	if err := db.Model(&models.CachedCard{}).Count(&remaining).Error; err == nil {
		metrics.CachedCardsTotal.Set(float64(remaining))
	}

	return result.RowsAffected, nil
}
