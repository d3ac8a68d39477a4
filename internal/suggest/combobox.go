package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"directory-bknd/internal/models"
	"directory-bknd/internal/utils"

	"go.uber.org/zap"
)

const DefaultDebounce = 400 * time.Millisecond

type Options struct {
	Debounce  time.Duration
	AfterFunc utils.AfterFunc
	Logger    *zap.Logger
	// OnChange is called with the combobox lock held and must not block.
	OnChange func(State)
}

// State is what the search box renders.
type State struct {
	Text        string            `json:"text"`
	Open        bool              `json:"open"`
	Suggestions Suggestions       `json:"suggestions"`
	Searching   bool              `json:"searching"`
	Selection   *models.Selection `json:"selection"`
}

// Combobox filters categories on every keystroke and searches providers once
// typing settles.
type Combobox struct {
	searcher ProviderSearcher
	opts     Options
	logr     *zap.Logger

	mu        sync.Mutex
	text      string
	open      bool
	cats      []string
	providers []Provider
	searching bool
	selection *models.Selection
	closed    bool

	gen    uint64
	timer  utils.Timer
	cancel context.CancelFunc
}

func NewCombobox(searcher ProviderSearcher, opts Options) *Combobox {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = utils.RealAfterFunc
	}
	if opts.OnChange == nil {
		opts.OnChange = func(State) {}
	}
	logr := opts.Logger
	if logr == nil {
		logr = zap.NewNop()
	}
	return &Combobox{
		searcher:  searcher,
		opts:      opts,
		logr:      logr,
		cats:      []string{},
		providers: []Provider{},
	}
}

// Input handles a keystroke. Input over the word limit is rejected and
// reported as false; the previous text stays.
func (c *Combobox) Input(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || TooManyWords(text) {
		return false
	}
	c.text = text
	c.open = true
	if strings.TrimSpace(text) == "" {
		c.selection = nil
	}
	c.refreshLocked()
	c.emitLocked()
	return true
}

// Focus opens the suggestion panel.
func (c *Combobox) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.open {
		return
	}
	c.open = true
	c.emitLocked()
}

// Blur closes the panel. The selection is left alone.
func (c *Combobox) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.open {
		return
	}
	c.open = false
	c.emitLocked()
}

// Select commits a suggestion: the text becomes its label and the panel closes.
func (c *Combobox) Select(kind models.SelectionType, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.selection = &models.Selection{Type: kind, Value: value}
	c.text = value
	c.open = false
	c.refreshLocked()
	c.emitLocked()
}

// Enter commits the typed text as a category. Blank text does nothing.
func (c *Combobox) Enter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	trimmed := strings.TrimSpace(c.text)
	if c.closed || trimmed == "" {
		return false
	}
	c.selection = &models.Selection{Type: models.SelectionCategory, Value: trimmed}
	c.open = false
	c.emitLocked()
	return true
}

// Close stops the pending search and ignores all input afterwards.
func (c *Combobox) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.invalidateLocked()
}

func (c *Combobox) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// refreshLocked filters categories now and reschedules the provider search.
func (c *Combobox) refreshLocked() {
	c.invalidateLocked()
	c.cats = MatchCategories(c.text)

	query := strings.TrimSpace(c.text)
	if query == "" {
		c.providers = []Provider{}
		c.searching = false
		return
	}
	gen := c.gen
	c.timer = c.opts.AfterFunc(c.opts.Debounce, func() { c.search(gen, query) })
}

// invalidateLocked makes any scheduled or running search stale.
func (c *Combobox) invalidateLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Combobox) search(gen uint64, query string) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.timer = nil
	c.searching = true
	c.emitLocked()
	c.mu.Unlock()

	locs, err := c.searcher.SearchProviders(ctx, query, ProviderLimit)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return
	}
	c.cancel = nil
	c.searching = false
	if err != nil {
		// suggestions are best effort: keep what was shown
		if !errors.Is(err, context.Canceled) {
			c.logr.Warn("provider suggestions failed", zap.Error(err), zap.String("query", query))
		}
		c.emitLocked()
		return
	}
	c.providers = toProviders(locs)
	c.emitLocked()
}

func (c *Combobox) stateLocked() State {
	st := State{
		Text:      c.text,
		Open:      c.open,
		Searching: c.searching,
		Suggestions: Suggestions{
			Categories: append([]string{}, c.cats...),
			Providers:  append([]Provider{}, c.providers...),
		},
	}
	if c.selection != nil {
		sel := *c.selection
		st.Selection = &sel
	}
	return st
}

func (c *Combobox) emitLocked() {
	c.opts.OnChange(c.stateLocked())
}
