package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/codyseavey/pokeprice/internal/metrics"
	"github.com/codyseavey/pokeprice/internal/models"
)

const (
	pokemonTCGBaseURL        = "https://api.pokemontcg.io/v2"
	pokemonTCGDefaultTimeout = 30 * time.Second
	defaultLookupCacheSize   = 256
	defaultLookupCacheTTL    = 24 * time.Hour
)

// priceTierOrder is the TCGPlayer printing preference for the displayed price
var priceTierOrder = []string{"holofoil", "normal"}

// PokemonTCGConfig configures the card lookup client
type PokemonTCGConfig struct {
	BaseURL       string
	APIKey        string        // sent as X-Api-Key when set
	Timeout       time.Duration // HTTP client timeout
	RatePerSecond float64       // <= 0 disables throttling
	CacheSize     int           // in-memory entries
	CacheTTL      time.Duration // freshness window for both cache tiers
}

// PokemonTCGService looks up a single card by name on the Pokemon TCG API.
// Failures are logged and reported as "no result".
type PokemonTCGService struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	limiter  *rate.Limiter
	cache    *lru.Cache[string, cachedLookup]
	store    *LookupCacheService
	cacheTTL time.Duration
}

type cachedLookup struct {
	card      *models.CardRecord
	fetchedAt time.Time
}

// NewPokemonTCGService creates the lookup client. store may be nil to skip
// the SQLite cache tier.
func NewPokemonTCGService(cfg PokemonTCGConfig, store *LookupCacheService) *PokemonTCGService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = pokemonTCGBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = pokemonTCGDefaultTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultLookupCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultLookupCacheTTL
	}

	cache, err := lru.New[string, cachedLookup](cfg.CacheSize)
	if err != nil {
		log.Printf("Lookup: failed to create cache: %v", err)
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &PokemonTCGService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		limiter:  limiter,
		cache:    cache,
		store:    store,
		cacheTTL: cfg.CacheTTL,
	}
}

type pokemonSearchResponse struct {
	Data       []pokemonCard `json:"data"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Count      int           `json:"count"`
}

type pokemonCard struct {
	TCGPlayer *pokemonTCGPrice `json:"tcgplayer"`
	Set       pokemonSet       `json:"set"`
	Images    pokemonImages    `json:"images"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Number    string           `json:"number"`
	Rarity    string           `json:"rarity"`
}

type pokemonSet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Series string `json:"series"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPrice struct {
	Prices    map[string]pokemonPriceSet `json:"prices"`
	URL       string                     `json:"url"`
	UpdatedAt string                     `json:"updatedAt"`
}

type pokemonPriceSet struct {
	Low    *float64 `json:"low"`
	Mid    *float64 `json:"mid"`
	High   *float64 `json:"high"`
	Market *float64 `json:"market"`
}

// marketOrMid returns the market price, falling back to mid
func (p pokemonPriceSet) marketOrMid() *float64 {
	if p.Market != nil && *p.Market > 0 {
		return p.Market
	}
	if p.Mid != nil && *p.Mid > 0 {
		return p.Mid
	}
	return nil
}

// Lookup returns the first card whose name matches query exactly, or nil
// when there is no match or the lookup failed for any reason.
func (s *PokemonTCGService) Lookup(ctx context.Context, query string) *models.CardRecord {
	if card, ok := s.cached(query); ok {
		metrics.LookupsTotal.WithLabelValues("cache").Inc()
		return card
	}

	start := time.Now()
	card, err := s.searchFirst(ctx, query)
	metrics.LookupDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		log.Printf("Lookup: query %q failed: %v", query, err)
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		return nil
	}
	if card == nil {
		metrics.LookupsTotal.WithLabelValues("not_found").Inc()
		return nil
	}

	metrics.LookupsTotal.WithLabelValues("found").Inc()
	s.remember(query, card)
	return card.Clone()
}

// searchFirst issues the single name-match request and converts the first hit
func (s *PokemonTCGService) searchFirst(ctx context.Context, query string) (*models.CardRecord, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
	}

	reqURL := s.searchURL(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search pokemon tcg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pokemon tcg API returned status %d", resp.StatusCode)
	}

	var searchResp pokemonSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode pokemon tcg response: %w", err)
	}

	if len(searchResp.Data) == 0 {
		return nil, nil
	}

	return convertToCardRecord(searchResp.Data[0]), nil
}

// searchURL builds the exact-match filter: q=name:"<query>"
func (s *PokemonTCGService) searchURL(query string) string {
	name := strings.ReplaceAll(query, `"`, "")
	params := url.Values{}
	params.Set("q", fmt.Sprintf(`name:"%s"`, name))
	return fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode())
}

func convertToCardRecord(pc pokemonCard) *models.CardRecord {
	card := &models.CardRecord{
		ID:           pc.ID,
		Name:         pc.Name,
		SetName:      pc.Set.Name,
		SetSeries:    pc.Set.Series,
		ThumbnailURL: pc.Images.Small,
		Price:        extractPrice(pc.TCGPlayer),
	}
	if pc.TCGPlayer != nil {
		card.TCGPlayerURL = pc.TCGPlayer.URL
	}
	return card
}

// extractPrice walks the printing tiers in preference order and returns the
// first usable market or mid price
func extractPrice(tp *pokemonTCGPrice) *float64 {
	if tp == nil || tp.Prices == nil {
		return nil
	}
	for _, tier := range priceTierOrder {
		set, ok := tp.Prices[tier]
		if !ok {
			continue
		}
		if p := set.marketOrMid(); p != nil {
			price := *p
			return &price
		}
	}
	return nil
}

// cached checks the in-memory tier, then the SQLite tier
func (s *PokemonTCGService) cached(query string) (*models.CardRecord, bool) {
	if s.cache != nil {
		if entry, ok := s.cache.Get(query); ok {
			if time.Since(entry.fetchedAt) < s.cacheTTL {
				metrics.LookupCacheHits.WithLabelValues("memory").Inc()
				return entry.card.Clone(), true
			}
			s.cache.Remove(query)
		}
	}

	if s.store != nil {
		cached, err := s.store.Get(query, s.cacheTTL)
		if err != nil {
			log.Printf("Lookup: cache read for %q failed: %v", query, err)
		} else if cached != nil {
			metrics.LookupCacheHits.WithLabelValues("sqlite").Inc()
			card := cached.Record()
			if s.cache != nil {
				s.cache.Add(query, cachedLookup{card: card.Clone(), fetchedAt: cached.FetchedAt})
			}
			return card, true
		}
	}

	metrics.LookupCacheMisses.Inc()
	return nil, false
}

// remember stores a successful lookup in both cache tiers
func (s *PokemonTCGService) remember(query string, card *models.CardRecord) {
	now := time.Now()
	if s.cache != nil {
		s.cache.Add(query, cachedLookup{card: card.Clone(), fetchedAt: now})
	}
	if s.store != nil {
		if err := s.store.Save(query, card, now); err != nil {
			log.Printf("Lookup: cache write for %q failed: %v", query, err)
		}
	}
}
