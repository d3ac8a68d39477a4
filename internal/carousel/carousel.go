// Package carousel is the hero carousel state machine: a wrapping slide
// index, a transition lock and autoplay.
package carousel

import (
	"sync"
	"time"

	"directory-bknd/internal/models"
	"directory-bknd/internal/utils"
)

const (
	DefaultInterval   = 6 * time.Second
	DefaultTransition = 500 * time.Millisecond
)

type Options struct {
	Interval   time.Duration
	Transition time.Duration
	AfterFunc  utils.AfterFunc
	// OnChange is called with the carousel lock held and must not block.
	OnChange func(State)
}

// State is a snapshot of the carousel.
type State struct {
	Slides        []models.Slide `json:"slides"`
	Current       int            `json:"current"`
	Transitioning bool           `json:"transitioning"`
	Playing       bool           `json:"playing"`
}

type Carousel struct {
	opts Options

	mu            sync.Mutex
	slides        []models.Slide
	current       int
	transitioning bool
	playing       bool
	stopped       bool

	// bumped whenever a pending timer must be ignored
	transitionGen uint64
	autoplayGen   uint64

	transitionTimer utils.Timer
	autoplayTimer   utils.Timer
}

// New builds a carousel over the provider's slides, falling back to the
// default slides when there are none.
func New(own []models.Slide, opts Options) *Carousel {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Transition <= 0 {
		opts.Transition = DefaultTransition
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = utils.RealAfterFunc
	}
	if opts.OnChange == nil {
		opts.OnChange = func(State) {}
	}
	return &Carousel{opts: opts, slides: ResolveSlides(own)}
}

// Next advances one slide, wrapping at the end. It reports whether the
// carousel moved.
func (c *Carousel) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked((c.current + 1) % len(c.slides))
}

// Prev goes back one slide, wrapping at the start.
func (c *Carousel) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.slides)
	return c.moveLocked((c.current - 1 + n) % n)
}

// GoTo jumps to slide i. Jumping to the current slide or out of range is
// ignored.
func (c *Carousel) GoTo(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.slides) || i == c.current {
		return false
	}
	return c.moveLocked(i)
}

func (c *Carousel) moveLocked(to int) bool {
	if c.stopped || c.transitioning {
		return false
	}
	c.transitioning = true
	c.current = to

	c.transitionGen++
	gen := c.transitionGen
	c.transitionTimer = c.opts.AfterFunc(c.opts.Transition, func() { c.endTransition(gen) })

	c.emitLocked()
	return true
}

func (c *Carousel) endTransition(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || gen != c.transitionGen {
		return
	}
	c.transitioning = false
	c.transitionTimer = nil
	c.emitLocked()
}

// Start begins autoplay. Calling it while playing is a no-op.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.playing {
		return
	}
	c.playing = true
	c.scheduleLocked()
	c.emitLocked()
}

// Pause halts autoplay without tearing the carousel down.
func (c *Carousel) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.playing = false
	c.autoplayGen++
	if c.autoplayTimer != nil {
		c.autoplayTimer.Stop()
		c.autoplayTimer = nil
	}
	c.emitLocked()
}

func (c *Carousel) scheduleLocked() {
	c.autoplayGen++
	gen := c.autoplayGen
	c.autoplayTimer = c.opts.AfterFunc(c.opts.Interval, func() { c.tick(gen) })
}

func (c *Carousel) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || !c.playing || gen != c.autoplayGen {
		return
	}
	// a tick that lands mid-transition is skipped, like a manual click would be
	c.moveLocked((c.current + 1) % len(c.slides))
	c.scheduleLocked()
}

// Stop cancels every pending timer. The carousel ignores all input afterwards.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	c.playing = false
	c.transitionGen++
	c.autoplayGen++
	if c.transitionTimer != nil {
		c.transitionTimer.Stop()
		c.transitionTimer = nil
	}
	if c.autoplayTimer != nil {
		c.autoplayTimer.Stop()
		c.autoplayTimer = nil
	}
}

func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Carousel) stateLocked() State {
	return State{
		Slides:        c.slides,
		Current:       c.current,
		Transitioning: c.transitioning,
		Playing:       c.playing,
	}
}

func (c *Carousel) emitLocked() {
	c.opts.OnChange(c.stateLocked())
}
