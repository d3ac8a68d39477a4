// Package suggest backs the combined NDIS category and provider search box.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"directory-bknd/internal/models"
)

const (
	// MaxWords is the longest input the search box accepts.
	MaxWords = 10
	// ProviderLimit caps provider suggestions per search.
	ProviderLimit = 10
)

// ProviderSearcher finds providers matching free text.
type ProviderSearcher interface {
	SearchProviders(ctx context.Context, text string, limit int) ([]models.Location, error)
}

// Provider is one provider suggestion.
type Provider struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Suggestions are the two groups shown under the search box.
type Suggestions struct {
	Categories []string   `json:"categories"`
	Providers  []Provider `json:"providers"`
}

// TooManyWords reports whether text is over the word limit.
func TooManyWords(text string) bool {
	return len(strings.Fields(text)) > MaxWords
}

// Lookup returns both suggestion groups for text at once, without debounce.
func Lookup(ctx context.Context, s ProviderSearcher, text string) (Suggestions, error) {
	text = strings.TrimSpace(text)
	out := Suggestions{Categories: MatchCategories(text), Providers: []Provider{}}
	if text == "" || TooManyWords(text) {
		return out, nil
	}
	locs, err := s.SearchProviders(ctx, text, ProviderLimit)
	if err != nil {
		return out, fmt.Errorf("search providers: %w", err)
	}
	out.Providers = toProviders(locs)
	return out, nil
}

func toProviders(locs []models.Location) []Provider {
	out := make([]Provider, 0, len(locs))
	for _, l := range locs {
		out = append(out, Provider{ID: l.ID, Slug: l.Slug, Title: l.Title})
	}
	return out
}
