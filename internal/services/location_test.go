package services

import (
	"database/sql"
	"math"
	"strings"
	"testing"

	"directory-bknd/internal/config"
	"directory-bknd/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// newOfflineDB builds a bun DB that is never connected; only query
// rendering is exercised.
func newOfflineDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://u:p@127.0.0.1:1/none?sslmode=disable")))
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestLocationService(t *testing.T) *LocationService {
	cfg := &config.Config{DefaultPageLimit: 10, MaxPageLimit: 100, FeaturedCount: 6}
	return NewLocationService(newOfflineDB(t), nil, cfg, zap.NewNop())
}

func TestLocationService_Normalize(t *testing.T) {
	s := newTestLocationService(t)

	cases := []struct {
		in        models.LocationQuery
		wantPage  int
		wantLimit int
	}{
		{models.LocationQuery{}, 1, 10},
		{models.LocationQuery{Page: -3, Limit: 25}, 1, 25},
		{models.LocationQuery{Page: 4, Limit: 5000}, 4, 100},
		{models.LocationQuery{Page: math.MaxInt, Limit: 100}, models.MaxPage, 100},
	}
	for _, tc := range cases {
		got := s.Normalize(tc.in)
		if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
			t.Errorf("Normalize(%+v) = page %d limit %d", tc.in, got.Page, got.Limit)
		}
	}

	got := s.Normalize(models.LocationQuery{Search: "  Perth  ", Title: " Acme "})
	if got.Search != "Perth" || got.Title != "Acme" {
		t.Fatalf("text filters not trimmed: %+v", got)
	}
}

func TestLocationService_SearchQuery(t *testing.T) {
	s := newTestLocationService(t)
	from := 50.0

	query := s.searchQuery(s.Normalize(models.LocationQuery{
		Search:     "acme",
		City:       "Perth",
		Categories: []string{"Therapeutic Supports"},
		Title:      "care",
		PriceFrom:  &from,
	})).String()

	for _, want := range []string{
		"loc.title ILIKE '%acme%'",
		"loc.google_address->>'formatted' ILIKE '%acme%'",
		"LOWER(loc.city) = 'perth'",
		"loc.categories &&",
		"Therapeutic Supports",
		"loc.title ILIKE '%care%'",
		"loc.price_to >= 50",
		"claim_status = 'claimed' DESC",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
	if strings.Contains(query, "favorites") {
		t.Errorf("directory search joined favorites:\n%s", query)
	}
}

func TestLocationService_FavoritesQuery(t *testing.T) {
	s := newTestLocationService(t)

	query := s.searchQuery(s.Normalize(models.LocationQuery{UserID: "user-1"})).String()

	for _, want := range []string{
		"fav.id AS favorite_id",
		"JOIN favorites AS fav ON fav.location_id = loc.id AND fav.user_id = 'user-1'",
		"ORDER BY fav.created_at DESC",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
}
