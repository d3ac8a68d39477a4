package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"directory-bknd/internal/cache"
	"directory-bknd/internal/config"
	"directory-bknd/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

const (
	searchCachePrefix  = "locations:search"
	featuredCacheKey   = "locations:featured"
	featuredCacheTTL   = 2 * time.Hour
	providerMatchLimit = 10
)

type LocationService struct {
	db    *bun.DB
	cache *cache.Redis
	cfg   *config.Config
	logr  *zap.Logger

	mu       sync.RWMutex
	featured []models.Location

	// randomOffset picks the featured page; replaced in tests
	randomOffset func(n int) int
}

func NewLocationService(db *bun.DB, c *cache.Redis, cfg *config.Config, logr *zap.Logger) *LocationService {
	return &LocationService{
		db:           db,
		cache:        c,
		cfg:          cfg,
		logr:         logr,
		randomOffset: rand.Intn,
	}
}

// Normalize applies page and limit defaults and tidies the text filters.
func (s *LocationService) Normalize(q models.LocationQuery) models.LocationQuery {
	q.Page = max(1, min(q.Page, models.MaxPage))
	if q.Limit <= 0 {
		q.Limit = s.cfg.DefaultPageLimit
	}
	if s.cfg.MaxPageLimit > 0 && q.Limit > s.cfg.MaxPageLimit {
		q.Limit = s.cfg.MaxPageLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.City = strings.TrimSpace(q.City)
	q.Title = strings.TrimSpace(q.Title)
	q.UserID = strings.TrimSpace(q.UserID)
	return q
}

// Search runs a paginated location search. Searches scoped to a user only
// return that user's favorites, each carrying its favorite id.
func (s *LocationService) Search(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error) {
	q = s.Normalize(q)

	key, encodable := cache.Key(searchCachePrefix, q)
	cacheable := encodable && q.UserID == ""
	if cacheable {
		var cached models.LocationPage
		if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	sel := s.searchQuery(q)

	// Count total before pagination
	total, err := sel.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count locations: %w", err)
	}

	var locs []models.Location
	if err := sel.Offset((q.Page-1)*q.Limit).Limit(q.Limit).Scan(ctx, &locs); err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	if locs == nil {
		locs = []models.Location{}
	}

	page := &models.LocationPage{
		Data:       locs,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit, // ceil
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, page, s.cfg.SearchCacheTTL); err != nil {
			s.logr.Debug("search cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

func (s *LocationService) searchQuery(q models.LocationQuery) *bun.SelectQuery {
	sel := s.db.NewSelect().
		Model((*models.Location)(nil)).
		ColumnExpr("loc.*")

	if q.UserID != "" {
		sel = sel.
			ColumnExpr("fav.id AS favorite_id").
			Join("JOIN favorites AS fav ON fav.location_id = loc.id AND fav.user_id = ?", q.UserID)
	}

	if q.Search != "" {
		like := "%" + q.Search + "%"
		sel = sel.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			return g.Where("loc.title ILIKE ?", like).
				WhereOr("loc.address ILIKE ?", like).
				WhereOr("loc.google_address->>'formatted' ILIKE ?", like).
				WhereOr("loc.description ILIKE ?", like)
		})
	}
	if q.City != "" {
		city := strings.ToLower(q.City)
		sel = sel.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			return g.Where("LOWER(loc.city) = ?", city).
				WhereOr("LOWER(loc.google_address->>'city') = ?", city).
				WhereOr("LOWER(loc.google_address->>'state') = ?", city)
		})
	}
	if len(q.Categories) > 0 {
		sel = sel.Where("loc.categories && ?", pgdialect.Array(q.Categories))
	}
	if q.Title != "" {
		sel = sel.Where("loc.title ILIKE ?", "%"+q.Title+"%")
	}
	// price bounds match any provider whose range overlaps the requested one
	if q.PriceFrom != nil {
		sel = sel.Where("(loc.price_to IS NULL OR loc.price_to >= ?)", *q.PriceFrom)
	}
	if q.PriceTo != nil {
		sel = sel.Where("(loc.price_from IS NULL OR loc.price_from <= ?)", *q.PriceTo)
	}

	if q.UserID != "" {
		return sel.OrderExpr("fav.created_at DESC, loc.id ASC")
	}
	return sel.OrderExpr("loc.claim_status = 'claimed' DESC, loc.created_at DESC, loc.id ASC")
}

// GetBySlug returns ErrNotFound for unknown slugs.
func (s *LocationService) GetBySlug(ctx context.Context, slug string) (*models.Location, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidInput
	}
	loc := new(models.Location)
	if err := s.db.NewSelect().Model(loc).Where("loc.slug = ?", slug).Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return loc, nil
}

// SearchProviders returns providers whose title or address matches text.
func (s *LocationService) SearchProviders(ctx context.Context, text string, limit int) ([]models.Location, error) {
	if limit <= 0 || limit > providerMatchLimit {
		limit = providerMatchLimit
	}
	page, err := s.Search(ctx, models.LocationQuery{Page: 1, Limit: limit, Search: text})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Featured returns the current featured set, loading it on first use.
func (s *LocationService) Featured(ctx context.Context) ([]models.Location, error) {
	s.mu.RLock()
	featured := s.featured
	s.mu.RUnlock()
	if featured != nil {
		return featured, nil
	}

	var cached []models.Location
	if found, err := s.cache.GetJSON(ctx, featuredCacheKey, &cached); err == nil && found {
		s.setFeatured(cached)
		return cached, nil
	}

	if err := s.RefreshFeatured(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.featured, nil
}

// RefreshFeatured picks a random window of providers as the new featured set.
func (s *LocationService) RefreshFeatured(ctx context.Context) error {
	count := s.cfg.FeaturedCount
	if count <= 0 {
		count = 6
	}

	total, err := s.db.NewSelect().Model((*models.Location)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count locations: %w", err)
	}
	offset := 0
	if total > count {
		offset = s.randomOffset(total - count + 1)
	}

	var locs []models.Location
	err = s.db.NewSelect().
		Model(&locs).
		OrderExpr("loc.id ASC").
		Offset(offset).
		Limit(count).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("load featured: %w", err)
	}
	if locs == nil {
		locs = []models.Location{}
	}

	s.setFeatured(locs)
	if err := s.cache.SetJSON(ctx, featuredCacheKey, locs, featuredCacheTTL); err != nil {
		s.logr.Debug("featured cache write failed", zap.Error(err))
	}
	s.logr.Info("featured providers refreshed", zap.Int("count", len(locs)), zap.Int("offset", offset))
	return nil
}

func (s *LocationService) setFeatured(locs []models.Location) {
	s.mu.Lock()
	s.featured = locs
	s.mu.Unlock()
}

// InvalidateSearchCache drops every cached search page.
func (s *LocationService) InvalidateSearchCache(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, searchCachePrefix+":*")
}
