package listing

import (
	"net/url"

	"directory-bknd/internal/filters"
	"directory-bknd/internal/models"
)

type Scope string

const (
	ScopeDirectory Scope = "directory"
	ScopeFavorites Scope = "favorites"
)

// BasePath is the unfiltered listing URL of the scope.
func (s Scope) BasePath() string {
	if s == ScopeFavorites {
		return "/dashboard/favorites"
	}
	return "/listing"
}

// ParseScope defaults anything unknown to the directory.
func ParseScope(raw string) Scope {
	if Scope(raw) == ScopeFavorites {
		return ScopeFavorites
	}
	return ScopeDirectory
}

type ActiveView string

const (
	ViewList ActiveView = "list"
	ViewMap  ActiveView = "map"
)

const (
	emptyTitle        = "No locations found"
	emptyMessage      = "Try adjusting your search filters or try a different search term."
	selectedFallback  = "Selected Location"
	addressUnknownMsg = "Address not available"
)

type EmptyState struct {
	Title           string `json:"title"`
	Message         string `json:"message"`
	ClearFiltersURL string `json:"clearFiltersUrl"`
}

type Pagination struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	PrevURL    string `json:"prevUrl,omitempty"`
	NextURL    string `json:"nextUrl,omitempty"`
}

// SelectedCard summarises the selected location for the map overlay.
type SelectedCard struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Address string `json:"address"`
}

// View is everything a listing page renders.
type View struct {
	Scope      Scope             `json:"scope"`
	URL        string            `json:"url"`
	Filters    filters.State     `json:"filters"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	CanRetry   bool              `json:"canRetry"`
	Locations  []models.Location `json:"locations"`
	Pins       []models.Pin      `json:"pins"`
	Total      int               `json:"total"`
	Pagination Pagination        `json:"pagination"`
	Empty      *EmptyState       `json:"empty,omitempty"`

	ActiveView         ActiveView    `json:"activeView"`
	SelectedLocationID *string       `json:"selectedLocationId"`
	Selected           *SelectedCard `json:"selected,omitempty"`
	DrawerOpen         bool          `json:"drawerOpen"`
	ScrollTop          bool          `json:"scrollTop"`
}

// BuildView renders the data part of a listing view for the given URL values
// and fetch status.
func BuildView(scope Scope, values url.Values, st Status) View {
	base := scope.BasePath()
	state := filters.Decode(values)

	v := View{
		Scope:      scope,
		URL:        filters.Href(base, values),
		Filters:    state,
		Loading:    st.Loading,
		Error:      st.Err,
		CanRetry:   st.Err != "",
		Locations:  []models.Location{},
		Pins:       []models.Pin{},
		ActiveView: ViewList,
		Pagination: Pagination{Page: state.Page},
	}

	if st.Page != nil && !st.Loading && st.Err == "" {
		v.Locations = st.Page.Data
		v.Pins = Pins(st.Page.Data)
		v.Total = st.Page.Total
		v.Pagination.TotalPages = st.Page.TotalPages

		if len(st.Page.Data) == 0 {
			v.Empty = &EmptyState{
				Title:           emptyTitle,
				Message:         emptyMessage,
				ClearFiltersURL: base,
			}
		}
	}

	if state.Page > 1 {
		v.Pagination.PrevURL = filters.Href(base, filters.WithPage(values, state.Page-1))
	}
	if state.Page < v.Pagination.TotalPages {
		v.Pagination.NextURL = filters.Href(base, filters.WithPage(values, state.Page+1))
	}

	return v
}

func selectedCard(locs []models.Location, id string) *SelectedCard {
	card := &SelectedCard{ID: id, Title: selectedFallback, Address: addressUnknownMsg}
	for i := range locs {
		if locs[i].ID != id {
			continue
		}
		if locs[i].Title != "" {
			card.Title = locs[i].Title
		}
		if addr := locs[i].FormattedAddress(); addr != "" {
			card.Address = addr
		}
		break
	}
	return card
}
