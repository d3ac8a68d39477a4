// Package filters is the query-string codec shared by every filtered listing.
// The URL is the canonical filter state: pages decode it on every navigation
// and write edits back through it, never the other way round.
package filters

import (
	"net/url"
	"strconv"
	"strings"

	"directory-bknd/internal/models"
	"directory-bknd/internal/utils"
)

const (
	KeySearch     = "search"
	KeyRegion     = "region"
	KeyCategories = "categories"
	KeyTitle      = "title"
	KeyPage       = "page"
)

// State is the decoded filter state of a listing URL.
type State struct {
	Search     string   `json:"search"`
	Region     string   `json:"region"`
	Categories []string `json:"categories"`
	Title      string   `json:"title"`
	Page       int      `json:"page"`
}

// Decode derives the filter state from URL query values. Missing keys fall
// back to empty values and page 1; a malformed or non-positive page is 1.
func Decode(v url.Values) State {
	return State{
		Search:     strings.TrimSpace(v.Get(KeySearch)),
		Region:     strings.TrimSpace(v.Get(KeyRegion)),
		Categories: utils.ParseQueryList(v, KeyCategories),
		Title:      strings.TrimSpace(v.Get(KeyTitle)),
		Page:       parsePage(v.Get(KeyPage)),
	}
}

// DecodeQuery is Decode over a raw query string. Unparseable input decodes as
// the empty state.
func DecodeQuery(raw string) State {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Decode(url.Values{})
	}
	return Decode(v)
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, models.MaxPage)
}

// Normalize returns the state as it looks after a trip through the URL.
func (s State) Normalize() State {
	out := State{
		Search: strings.TrimSpace(s.Search),
		Region: strings.TrimSpace(s.Region),
		Title:  strings.TrimSpace(s.Title),
		Page:   s.Page,
	}
	if len(s.Categories) > 0 {
		out.Categories = utils.ParseQueryList(map[string][]string{KeyCategories: s.Categories}, KeyCategories)
	}
	out.Page = max(1, min(out.Page, models.MaxPage))
	return out
}

// IsFiltered reports whether any search constraint is active. Page is not a
// constraint.
func (s State) IsFiltered() bool {
	return s.Search != "" || s.Region != "" || len(s.Categories) > 0 || s.Title != ""
}

// Query converts the state into a search request.
func (s State) Query(limit int, userID string) models.LocationQuery {
	n := s.Normalize()
	return models.LocationQuery{
		Page:       n.Page,
		Limit:      limit,
		Search:     n.Search,
		City:       n.Region,
		Categories: n.Categories,
		Title:      n.Title,
		UserID:     userID,
	}
}

// Encode writes the state into a copy of base. Keys outside the filter set
// are preserved, empty values remove their key and page 1 is stored as absent.
func Encode(s State, base url.Values) url.Values {
	n := s.Normalize()
	out := clone(base)

	setOrDelete(out, KeySearch, n.Search)
	setOrDelete(out, KeyRegion, n.Region)
	setOrDelete(out, KeyCategories, utils.JoinQueryList(n.Categories))
	setOrDelete(out, KeyTitle, n.Title)

	return WithPage(out, n.Page)
}

// WithPage is the pagination writer. Any page <= 1 removes the key.
func WithPage(v url.Values, page int) url.Values {
	out := clone(v)
	if page <= 1 {
		out.Del(KeyPage)
		return out
	}
	out.Set(KeyPage, strconv.Itoa(page))
	return out
}

// Set writes a single filter key. Editing anything but the page starts the
// listing over from page 1.
func Set(v url.Values, key, value string) url.Values {
	if key == KeyPage {
		return WithPage(v, parsePage(value))
	}
	out := clone(v)
	if key == KeyCategories {
		value = utils.JoinQueryList(utils.ParseQueryList(map[string][]string{key: {value}}, key))
	}
	setOrDelete(out, key, strings.TrimSpace(value))
	out.Del(KeyPage)
	return out
}

// Href renders path plus the encoded query, without a trailing "?" when the
// query is empty.
func Href(path string, v url.Values) string {
	if q := v.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

func setOrDelete(v url.Values, key, value string) {
	if value == "" {
		v.Del(key)
		return
	}
	v.Set(key, value)
}

func clone(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
