package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/codyseavey/pokeprice/internal/database"
)

// DefaultPruneInterval is how often stale lookup rows are removed
const DefaultPruneInterval = time.Hour

// CachePruner periodically removes lookup cache rows older than the cache TTL
type CachePruner struct {
	db            *gorm.DB
	maxAge        time.Duration
	checkInterval time.Duration

	mu        sync.RWMutex
	lastPrune time.Time
	lastCount int64
}

// NewCachePruner creates a pruner; a non-positive interval uses DefaultPruneInterval
func NewCachePruner(db *gorm.DB, maxAge, interval time.Duration) *CachePruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	return &CachePruner{
		db:            db,
		maxAge:        maxAge,
		checkInterval: interval,
	}
}

// Start prunes once, then on every tick until ctx is cancelled
func (p *CachePruner) Start(ctx context.Context) {
	log.Printf("Cache pruner started: removing lookups older than %s every %s", p.maxAge, p.checkInterval)

	p.PruneNow()

	ticker := time.NewTicker(p.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache pruner stopping...")
			return
		case <-ticker.C:
			p.PruneNow()
		}
	}
}

// PruneNow removes stale rows immediately and returns how many were deleted
func (p *CachePruner) PruneNow() int64 {
	deleted, err := database.PruneCachedCards(p.db, p.maxAge)
	if err != nil {
		log.Printf("Cache pruner: failed to prune: %v", err)
		return 0
	}

	p.mu.Lock()
	p.lastPrune = time.Now()
	p.lastCount = deleted
	p.mu.Unlock()
	return deleted
}

// LastPrune returns when the last successful prune ran and how many rows it removed
func (p *CachePruner) LastPrune() (time.Time, int64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastPrune, p.lastCount
}
