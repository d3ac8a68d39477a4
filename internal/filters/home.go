package filters

import (
	"errors"
	"net/url"
	"strings"

	"directory-bknd/internal/models"
)

const listingPath = "/listing"

// EmptySearchMessage is shown inline when the homepage search has nothing to search for.
const EmptySearchMessage = "Please fill at least one field to search"

var ErrEmptySearch = errors.New("empty search")

// HomeSearch is the homepage search bar: the combobox selection, whatever was
// typed into it, the picked place and an optional region.
type HomeSearch struct {
	Selection    *models.Selection `json:"selection"`
	TypedText    string            `json:"typedText"`
	PlaceAddress string            `json:"placeAddress"`
	Region       string            `json:"region"`
}

// ResolveHomeSearch validates the search bar and returns the listing URL to
// navigate to.
func ResolveHomeSearch(h HomeSearch) (string, error) {
	typed := strings.TrimSpace(h.TypedText)
	place := strings.TrimSpace(h.PlaceAddress)

	var sel *models.Selection
	if h.Selection != nil && strings.TrimSpace(h.Selection.Value) != "" {
		sel = h.Selection
	}

	if place == "" && sel == nil && typed == "" {
		return "", ErrEmptySearch
	}

	v := url.Values{}
	if typed != "" && sel == nil {
		v.Set(KeyTitle, typed)
	}
	if place != "" {
		v.Set(KeySearch, place)
	}
	if sel != nil {
		value := strings.TrimSpace(sel.Value)
		switch sel.Type {
		case models.SelectionProvider:
			v.Set(KeyTitle, value)
		default:
			v.Set(KeyCategories, value)
		}
	}
	if r := strings.TrimSpace(h.Region); r != "" {
		v.Set(KeyRegion, r)
	}

	return Href(listingPath, v), nil
}
