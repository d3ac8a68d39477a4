package listing

import (
	"context"
	"errors"
	"sync"

	"directory-bknd/internal/models"

	"go.uber.org/zap"
)

// FetchErrorMessage is the user-visible error for a failed listing fetch.
const FetchErrorMessage = "Failed to fetch locations. Please try again later."

// Fetcher runs a paginated location search.
type Fetcher interface {
	Search(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error)
}

// Status is the orchestrator's view of the latest request.
type Status struct {
	Generation uint64
	Query      models.LocationQuery
	Loading    bool
	Err        string
	Page       *models.LocationPage
}

// Orchestrator issues listing fetches. Every Fetch supersedes the previous
// one: the older request's context is cancelled and, should it still
// complete, its result is dropped because its generation is no longer the
// latest.
type Orchestrator struct {
	fetcher  Fetcher
	logr     *zap.Logger
	onUpdate func(Status)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	last   *models.LocationQuery
	status Status
	closed bool

	wg sync.WaitGroup
}

// NewOrchestrator builds an orchestrator. onUpdate is called with the orchestrator
// lock held, in generation order, and must not call back into the orchestrator.
func NewOrchestrator(fetcher Fetcher, logr *zap.Logger, onUpdate func(Status)) *Orchestrator {
	if logr == nil {
		logr = zap.NewNop()
	}
	if onUpdate == nil {
		onUpdate = func(Status) {}
	}
	return &Orchestrator{fetcher: fetcher, logr: logr, onUpdate: onUpdate}
}

// Fetch starts a request for q and returns its generation. It returns 0 once
// the orchestrator is closed.
func (o *Orchestrator) Fetch(ctx context.Context, q models.LocationQuery) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0
	}
	if o.cancel != nil {
		o.cancel()
	}

	o.gen++
	gen := o.gen
	reqCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	q.Categories = append([]string(nil), q.Categories...)
	o.last = &q
	o.status = Status{Generation: gen, Query: q, Loading: true, Page: o.status.Page}
	o.onUpdate(o.status)

	o.wg.Add(1)
	go o.run(reqCtx, cancel, gen, q)

	return gen
}

// Retry re-issues the last request unchanged.
func (o *Orchestrator) Retry(ctx context.Context) (uint64, bool) {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()

	if last == nil {
		return 0, false
	}
	gen := o.Fetch(ctx, *last)
	return gen, gen != 0
}

func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, gen uint64, q models.LocationQuery) {
	defer o.wg.Done()
	defer cancel()

	page, err := o.fetcher.Search(ctx, q)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || gen != o.gen {
		return
	}
	o.cancel = nil
	o.status.Loading = false

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			o.logr.Warn("listing fetch failed",
				zap.Error(err),
				zap.Uint64("generation", gen),
				zap.Int("page", q.Page))
		}
		o.status.Err = FetchErrorMessage
		o.onUpdate(o.status)
		return
	}

	if page == nil {
		page = &models.LocationPage{}
	}
	if page.Data == nil {
		page.Data = []models.Location{}
	}
	o.status.Err = ""
	o.status.Page = page
	o.onUpdate(o.status)
}

// Status returns a snapshot of the latest request.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Wait blocks until no request is in flight.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels the in-flight request and stops publishing.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.mu.Unlock()

	o.wg.Wait()
}

func (s Status) pageData() []models.Location {
	if s.Page == nil {
		return nil
	}
	return s.Page.Data
}
