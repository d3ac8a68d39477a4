package listing

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"directory-bknd/internal/models"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []models.LocationQuery
	respond func(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error)
}

func (f *fakeFetcher) Search(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return &models.LocationPage{}, nil
	}
	return respond(ctx, q)
}

func (f *fakeFetcher) lastCall() models.LocationQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recorder struct {
	mu    sync.Mutex
	views []View
}

func (r *recorder) add(v View) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
}

func (r *recorder) last() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func pageOf(titles ...string) *models.LocationPage {
	p := &models.LocationPage{Total: len(titles), TotalPages: 1}
	for i, title := range titles {
		p.Data = append(p.Data, models.Location{ID: "loc_" + title, Title: title, Latitude: float64(i)})
	}
	return p
}

func newTestController(scope Scope, f *fakeFetcher, userID string) (*Controller, *recorder) {
	rec := &recorder{}
	c := NewController(scope, f, Options{UserID: userID, Limit: 10, OnChange: rec.add})
	return c, rec
}

func TestController_NavigateDecodesURL(t *testing.T) {
	f := &fakeFetcher{respond: func(context.Context, models.LocationQuery) (*models.LocationPage, error) {
		p := pageOf("Acme", "Bright")
		p.Total = 45
		p.TotalPages = 5
		return p, nil
	}}
	c, rec := newTestController(ScopeDirectory, f, "ignored")
	defer c.Close()

	c.Navigate(context.Background(), "?search=Sydney&region=NSW&categories=Therapy,Nursing&title=Acme&page=2")
	c.Wait()

	q := f.lastCall()
	if q.Search != "Sydney" || q.City != "NSW" || q.Title != "Acme" || q.Page != 2 || q.Limit != 10 {
		t.Fatalf("unexpected query %#v", q)
	}
	if len(q.Categories) != 2 || q.UserID != "" {
		t.Fatalf("unexpected categories/user %#v", q)
	}

	v := rec.last()
	if v.Loading || v.Error != "" {
		t.Fatalf("view should be settled: %#v", v)
	}
	if len(v.Locations) != 2 || len(v.Pins) != 2 || v.Total != 45 {
		t.Fatalf("unexpected data in view: %d locations, %d pins, total %d", len(v.Locations), len(v.Pins), v.Total)
	}
	prev, _ := url.Parse(v.Pagination.PrevURL)
	if prev.Path != "/listing" || prev.Query().Has("page") || prev.Query().Get("search") != "Sydney" {
		t.Fatalf("PrevURL = %q", v.Pagination.PrevURL)
	}
	next, _ := url.Parse(v.Pagination.NextURL)
	if next.Query().Get("page") != "3" {
		t.Fatalf("NextURL = %q", v.Pagination.NextURL)
	}
}

func TestController_EmptyResultOffersClearFilters(t *testing.T) {
	f := &fakeFetcher{respond: func(context.Context, models.LocationQuery) (*models.LocationPage, error) {
		return &models.LocationPage{Data: []models.Location{}, Total: 0, TotalPages: 0}, nil
	}}
	c, rec := newTestController(ScopeDirectory, f, "")
	defer c.Close()

	c.Navigate(context.Background(), "categories=Nothing&page=3")
	c.Wait()

	v := rec.last()
	if v.Empty == nil {
		t.Fatal("expected empty state")
	}
	if v.Empty.Title != "No locations found" || v.Empty.ClearFiltersURL != "/listing" {
		t.Fatalf("unexpected empty state %#v", v.Empty)
	}

	c.ClearFilters(context.Background())
	c.Wait()

	if got := c.URL(); got != "/listing" {
		t.Fatalf("URL after clear = %q", got)
	}
	q := f.lastCall()
	if q.Page != 1 || len(q.Categories) != 0 {
		t.Fatalf("clear filters fetched %#v", q)
	}
}

func TestController_ErrorAndRetry(t *testing.T) {
	var fail = true
	var mu sync.Mutex
	f := &fakeFetcher{respond: func(context.Context, models.LocationQuery) (*models.LocationPage, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("upstream down")
		}
		return pageOf("Acme"), nil
	}}
	c, rec := newTestController(ScopeDirectory, f, "")
	defer c.Close()

	c.Navigate(context.Background(), "search=Perth")
	c.Wait()

	v := rec.last()
	if v.Error != FetchErrorMessage || !v.CanRetry {
		t.Fatalf("expected retryable error, got %#v", v)
	}
	if v.Empty != nil {
		t.Fatal("error view must not render the empty state")
	}
	first := f.lastCall()

	mu.Lock()
	fail = false
	mu.Unlock()

	if !c.Retry(context.Background()) {
		t.Fatal("Retry reported nothing to retry")
	}
	c.Wait()

	if got := f.lastCall(); got.Search != first.Search || got.Page != first.Page {
		t.Fatalf("retry issued a different request: %#v vs %#v", got, first)
	}
	v = rec.last()
	if v.Error != "" || len(v.Locations) != 1 {
		t.Fatalf("retry did not recover: %#v", v)
	}
}

func TestController_StaleResponseDropped(t *testing.T) {
	release := make(chan struct{})
	f := &fakeFetcher{respond: func(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error) {
		if q.Search == "slow" {
			// ignores cancellation on purpose
			<-release
			return pageOf("Slow"), nil
		}
		return pageOf("Fast"), nil
	}}
	c, rec := newTestController(ScopeDirectory, f, "")

	c.Navigate(context.Background(), "search=slow")
	c.Navigate(context.Background(), "search=fast")

	deadline := time.Now().Add(2 * time.Second)
	for {
		v := rec.last()
		if !v.Loading && len(v.Locations) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("fast response never arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(release)
	c.Wait()

	v := rec.last()
	if v.Filters.Search != "fast" || v.Locations[0].Title != "Fast" {
		t.Fatalf("stale response leaked into view: search=%q first=%q", v.Filters.Search, v.Locations[0].Title)
	}
	c.Close()
}

func TestOrchestrator_SupersededRequestCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	f := &fakeFetcher{respond: func(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error) {
		if q.Page == 1 {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return pageOf("Two"), nil
	}}
	var statuses []Status
	o := NewOrchestrator(f, nil, func(s Status) { statuses = append(statuses, s) })

	g1 := o.Fetch(context.Background(), models.LocationQuery{Page: 1, Limit: 10})
	g2 := o.Fetch(context.Background(), models.LocationQuery{Page: 2, Limit: 10})
	if g2 <= g1 {
		t.Fatalf("generations not increasing: %d then %d", g1, g2)
	}

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded request was not cancelled")
	}
	o.Wait()

	st := o.Status()
	if st.Generation != g2 || st.Loading || st.Err != "" || st.Page.Data[0].Title != "Two" {
		t.Fatalf("unexpected final status %#v", st)
	}
	if len(statuses) < 3 || !statuses[0].Loading {
		t.Fatalf("expected loading updates before the result, got %d", len(statuses))
	}
	o.Close()
	if got := o.Fetch(context.Background(), models.LocationQuery{Page: 3}); got != 0 {
		t.Fatalf("Fetch after Close returned generation %d", got)
	}
}

func TestController_SelectAndClear(t *testing.T) {
	f := &fakeFetcher{respond: func(context.Context, models.LocationQuery) (*models.LocationPage, error) {
		return &models.LocationPage{Data: []models.Location{{
			ID:            "loc_42",
			Title:         "Harbour Physio",
			GoogleAddress: &models.GoogleAddress{Formatted: "1 Harbour St, Sydney"},
		}}, Total: 1, TotalPages: 1}, nil
	}}
	c, rec := newTestController(ScopeDirectory, f, "")
	defer c.Close()

	c.Navigate(context.Background(), "")
	c.Wait()

	c.SelectLocation("loc_42", false)
	v := rec.last()
	if v.SelectedLocationID == nil || *v.SelectedLocationID != "loc_42" {
		t.Fatalf("selection not set: %#v", v.SelectedLocationID)
	}
	if v.Selected.Title != "Harbour Physio" || v.Selected.Address != "1 Harbour St, Sydney" {
		t.Fatalf("selected card %#v", v.Selected)
	}
	if v.ActiveView != ViewList {
		t.Fatal("wide viewport selection must not switch views")
	}

	c.ClearSelection()
	if rec.last().SelectedLocationID != nil {
		t.Fatal("clear did not reset selection")
	}
	n := rec.count()
	c.ClearSelection()
	if rec.count() != n || c.View().SelectedLocationID != nil {
		t.Fatal("second clear should be a no-op")
	}
}

func TestController_NarrowSelectSwitchesToMap(t *testing.T) {
	c, rec := newTestController(ScopeDirectory, &fakeFetcher{}, "")
	defer c.Close()

	c.SelectLocation("loc_7", true)
	v := rec.last()
	if v.ActiveView != ViewMap || !v.ScrollTop {
		t.Fatalf("narrow select: view=%s scrollTop=%v", v.ActiveView, v.ScrollTop)
	}
	if v.Selected == nil || v.Selected.Title != "Selected Location" || v.Selected.Address != "Address not available" {
		t.Fatalf("fallback card %#v", v.Selected)
	}
	if c.View().ScrollTop {
		t.Fatal("scrollTop is a one-shot hint")
	}

	c.SetActiveView(ViewList)
	if v := rec.last(); v.SelectedLocationID != nil || v.ActiveView != ViewList {
		t.Fatal("switching back to list should clear selection")
	}
}

func TestController_GoToPageAndFilters(t *testing.T) {
	f := &fakeFetcher{}
	c, _ := newTestController(ScopeDirectory, f, "")
	defer c.Close()

	c.Navigate(context.Background(), "region=Perth&utm_source=mail")
	c.Wait()

	c.GoToPage(context.Background(), 4)
	c.Wait()
	if !strings.Contains(c.URL(), "page=4") || f.lastCall().Page != 4 {
		t.Fatalf("GoToPage(4): url=%q query=%#v", c.URL(), f.lastCall())
	}

	c.GoToPage(context.Background(), 0)
	c.Wait()
	if strings.Contains(c.URL(), "page=") || f.lastCall().Page != 1 {
		t.Fatalf("GoToPage(0): url=%q", c.URL())
	}

	c.GoToPage(context.Background(), 3)
	c.SetCategories(context.Background(), []string{"Therapy", "Nursing"})
	c.Wait()
	u, _ := url.Parse(c.URL())
	if u.Query().Has("page") || u.Query().Get("categories") != "Therapy,Nursing" || u.Query().Get("utm_source") != "mail" {
		t.Fatalf("SetCategories url = %q", c.URL())
	}
}

func TestController_FavoritesScopeCarriesUser(t *testing.T) {
	f := &fakeFetcher{}
	c, rec := newTestController(ScopeFavorites, f, "user-9")
	defer c.Close()

	c.Navigate(context.Background(), "")
	c.Wait()

	if f.lastCall().UserID != "user-9" {
		t.Fatalf("favorites fetch missing user: %#v", f.lastCall())
	}
	if e := rec.last().Empty; e == nil || e.ClearFiltersURL != "/dashboard/favorites" {
		t.Fatalf("favorites empty state %#v", e)
	}
	if f.callCount() != 1 {
		t.Fatalf("expected one fetch, got %d", f.callCount())
	}
}

func TestPins(t *testing.T) {
	locs := []models.Location{
		{ID: "a", Title: "A", Description: "Own text", Latitude: -33.8, Longitude: 151.2},
		{ID: "b", Title: "B", Categories: []string{"Therapy", "Nursing"}},
		{ID: "c", Title: "C", Address: "2 Main Rd"},
	}
	pins := Pins(locs)
	if len(pins) != 3 {
		t.Fatalf("got %d pins", len(pins))
	}
	if pins[0].Description != "Own text" || pins[0].Lat != -33.8 || pins[0].Link != "/listing/a" {
		t.Errorf("pin a = %#v", pins[0])
	}
	if pins[1].Description != "Therapy, Nursing" {
		t.Errorf("pin b description = %q", pins[1].Description)
	}
	if pins[2].Description != "Service provider" || pins[2].Address != "2 Main Rd" {
		t.Errorf("pin c = %#v", pins[2])
	}
}

func TestParseScope(t *testing.T) {
	if ParseScope("favorites") != ScopeFavorites || ParseScope("bogus") != ScopeDirectory {
		t.Fatal("ParseScope mismatch")
	}
}
