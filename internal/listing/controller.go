package listing

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"directory-bknd/internal/filters"
	"directory-bknd/internal/models"
	"directory-bknd/internal/utils"

	"go.uber.org/zap"
)

type Options struct {
	// UserID scopes the favorites listing. Ignored for the directory.
	UserID string
	Limit  int
	Logger *zap.Logger
	// OnChange receives every new view. It is called with the controller
	// lock held and must not block.
	OnChange func(View)
}

// Controller is one filtered listing instance: the URL-backed filter state,
// the UI-only state around it and the fetches it drives.
type Controller struct {
	scope    Scope
	userID   string
	limit    int
	onChange func(View)
	orch     *Orchestrator

	mu         sync.Mutex
	values     url.Values
	status     Status
	activeView ActiveView
	selectedID *string
	drawerOpen bool
	scrollTop  bool
}

func NewController(scope Scope, fetcher Fetcher, opts Options) *Controller {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.OnChange == nil {
		opts.OnChange = func(View) {}
	}
	c := &Controller{
		scope:      scope,
		limit:      opts.Limit,
		onChange:   opts.OnChange,
		values:     url.Values{},
		activeView: ViewList,
	}
	if scope == ScopeFavorites {
		c.userID = opts.UserID
	}
	c.orch = NewOrchestrator(fetcher, opts.Logger, c.onStatus)
	return c
}

// Navigate re-seeds all filter state from the URL query and fetches. It is the
// only way filter state changes; every other mutation goes through the URL.
func (c *Controller) Navigate(ctx context.Context, rawQuery string) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		v = url.Values{}
	}
	c.navigate(ctx, v, false)
}

func (c *Controller) navigate(ctx context.Context, v url.Values, scrollTop bool) {
	c.mu.Lock()
	c.values = v
	if scrollTop {
		c.scrollTop = true
	}
	q := c.currentQueryLocked()
	c.mu.Unlock()

	c.orch.Fetch(ctx, q)
}

// SetFilter edits one filter key and navigates to the resulting URL.
func (c *Controller) SetFilter(ctx context.Context, key, value string) {
	c.mu.Lock()
	v := filters.Set(c.values, key, value)
	c.mu.Unlock()
	c.navigate(ctx, v, false)
}

func (c *Controller) SetCategories(ctx context.Context, categories []string) {
	c.SetFilter(ctx, filters.KeyCategories, utils.JoinQueryList(categories))
}

// GoToPage writes the page into the URL and navigates there.
func (c *Controller) GoToPage(ctx context.Context, page int) {
	c.mu.Lock()
	v := filters.WithPage(c.values, page)
	c.mu.Unlock()
	c.navigate(ctx, v, true)
}

// ClearFilters navigates to the unfiltered listing.
func (c *Controller) ClearFilters(ctx context.Context) {
	c.mu.Lock()
	c.drawerOpen = false
	c.mu.Unlock()
	c.navigate(ctx, url.Values{}, false)
}

// Retry re-issues the last fetch.
func (c *Controller) Retry(ctx context.Context) bool {
	_, ok := c.orch.Retry(ctx)
	return ok
}

// SelectLocation highlights a location on the map. On narrow viewports the
// map becomes the active view and the page scrolls to the top.
func (c *Controller) SelectLocation(id string, narrow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedID = &id
	if narrow {
		c.activeView = ViewMap
		c.scrollTop = true
	}
	c.emitLocked()
}

// ClearSelection resets the map selection. Clearing an empty selection is a no-op.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selectedID == nil {
		return
	}
	c.selectedID = nil
	c.emitLocked()
}

// SetActiveView switches between list and map. Going back to the list drops
// the map selection.
func (c *Controller) SetActiveView(v ActiveView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v != ViewMap {
		v = ViewList
	}
	c.activeView = v
	if v == ViewList {
		c.selectedID = nil
	}
	c.emitLocked()
}

func (c *Controller) SetDrawerOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drawerOpen == open {
		return
	}
	c.drawerOpen = open
	c.emitLocked()
}

// URL is the canonical URL of the current filter state.
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filters.Href(c.scope.BasePath(), c.values)
}

// View returns the current view without consuming one-shot hints.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildLocked()
}

// Wait blocks until the in-flight fetch, if any, has settled.
func (c *Controller) Wait() {
	c.orch.Wait()
}

// Close stops fetching. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.orch.Close()
}

func (c *Controller) onStatus(st Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a response for parameters the URL no longer holds is stale
	if !st.Query.Equal(c.currentQueryLocked()) {
		return
	}
	c.status = st
	c.emitLocked()
}

func (c *Controller) currentQueryLocked() models.LocationQuery {
	return filters.Decode(c.values).Query(c.limit, c.userID)
}

func (c *Controller) emitLocked() {
	c.onChange(c.buildLocked())
	c.scrollTop = false
}

func (c *Controller) buildLocked() View {
	v := BuildView(c.scope, c.values, c.status)
	v.ActiveView = c.activeView
	v.DrawerOpen = c.drawerOpen
	v.ScrollTop = c.scrollTop
	if c.selectedID != nil {
		id := *c.selectedID
		v.SelectedLocationID = &id
		v.Selected = selectedCard(c.status.pageData(), id)
	}
	return v
}
