package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/carousel"
	"directory-bknd/internal/filters"
	"directory-bknd/internal/listing"
	"directory-bknd/internal/models"
	"directory-bknd/internal/suggest"
	"directory-bknd/internal/utils"
	"directory-bknd/internal/ws"

	"go.uber.org/zap"
)

var errLoginRequired = errors.New("authentication required")

// Timings configures the timer-driven widgets.
type Timings struct {
	Debounce           time.Duration
	CarouselInterval   time.Duration
	CarouselTransition time.Duration
	// AfterFunc overrides the timer source; nil uses real timers.
	AfterFunc utils.AfterFunc
}

// InteractiveHandler builds the per-connection widget sessions served over
// websockets: the filtered listing, the hero carousel and the search box.
type InteractiveHandler struct {
	locations LocationReader
	fetcher   listing.Fetcher
	providers suggest.ProviderSearcher
	limit     int
	timings   Timings
	logr      *zap.Logger
}

func NewInteractiveHandler(locations LocationReader, fetcher listing.Fetcher, providers suggest.ProviderSearcher, limit int, timings Timings, logr *zap.Logger) *InteractiveHandler {
	return &InteractiveHandler{
		locations: locations,
		fetcher:   fetcher,
		providers: providers,
		limit:     limit,
		timings:   timings,
		logr:      logr,
	}
}

func unknownCommand(typ string) error {
	return fmt.Errorf("unknown command %q", typ)
}

// listing

type listingSession struct {
	ctrl *listing.Controller
}

type listingCommand struct {
	Query      string   `json:"query"`
	Key        string   `json:"key"`
	Value      string   `json:"value"`
	Categories []string `json:"categories"`
	Page       int      `json:"page"`
	ID         string   `json:"id"`
	Narrow     bool     `json:"narrow"`
	View       string   `json:"view"`
	Open       bool     `json:"open"`
}

// Listing serves /ws/listing?scope=directory|favorites&query=<url query>.
func (h *InteractiveHandler) Listing(ctx context.Context, r *http.Request, c *ws.Conn) (ws.Session, error) {
	scope := listing.ParseScope(r.URL.Query().Get("scope"))
	sess := auth.FromContext(r.Context())
	if scope == listing.ScopeFavorites && !sess.Authenticated() {
		return nil, errLoginRequired
	}

	ctrl := listing.NewController(scope, h.fetcher, listing.Options{
		UserID:   sess.UserID(),
		Limit:    h.limit,
		Logger:   h.logr.With(zap.String("conn_id", c.ID)),
		OnChange: func(v listing.View) { c.Emit("view", v) },
	})
	ctrl.Navigate(ctx, r.URL.Query().Get("query"))
	return &listingSession{ctrl: ctrl}, nil
}

func (s *listingSession) Handle(ctx context.Context, f ws.Frame) error {
	var cmd listingCommand
	if err := f.Decode(&cmd); err != nil {
		return err
	}

	switch f.Type {
	case "navigate":
		s.ctrl.Navigate(ctx, cmd.Query)
	case "setFilter":
		s.ctrl.SetFilter(ctx, cmd.Key, cmd.Value)
	case "setCategories":
		s.ctrl.SetCategories(ctx, cmd.Categories)
	case "goToPage":
		s.ctrl.GoToPage(ctx, cmd.Page)
	case "clearFilters":
		s.ctrl.ClearFilters(ctx)
	case "retry":
		if !s.ctrl.Retry(ctx) {
			return errors.New("nothing to retry")
		}
	case "select":
		if strings.TrimSpace(cmd.ID) == "" {
			return errors.New("location id is required")
		}
		s.ctrl.SelectLocation(cmd.ID, cmd.Narrow)
	case "clearSelection":
		s.ctrl.ClearSelection()
	case "setView":
		s.ctrl.SetActiveView(listing.ActiveView(cmd.View))
	case "drawer":
		s.ctrl.SetDrawerOpen(cmd.Open)
	default:
		return unknownCommand(f.Type)
	}
	return nil
}

func (s *listingSession) Close() {
	s.ctrl.Close()
}

// hero carousel

type heroSession struct {
	car *carousel.Carousel
}

// Hero serves /ws/hero?slug=. Without a slug the default slides play.
func (h *InteractiveHandler) Hero(ctx context.Context, r *http.Request, c *ws.Conn) (ws.Session, error) {
	var slides []models.Slide
	if slug := strings.TrimSpace(r.URL.Query().Get("slug")); slug != "" {
		loc, err := h.locations.GetBySlug(ctx, slug)
		if err != nil {
			if statusFor(err) != http.StatusInternalServerError {
				return nil, errors.New("provider not found")
			}
			h.logr.Error("failed to load hero slides", zap.Error(err), zap.String("slug", slug))
			return nil, errors.New("failed to load provider")
		}
		slides = loc.Slides()
	}

	car := carousel.New(slides, carousel.Options{
		Interval:   h.timings.CarouselInterval,
		Transition: h.timings.CarouselTransition,
		AfterFunc:  h.timings.AfterFunc,
		OnChange:   func(st carousel.State) { c.Emit("carousel", st) },
	})
	c.Emit("carousel", car.State())
	car.Start()
	return &heroSession{car: car}, nil
}

func (s *heroSession) Handle(_ context.Context, f ws.Frame) error {
	switch f.Type {
	case "next":
		s.car.Next()
	case "prev":
		s.car.Prev()
	case "goTo":
		var cmd struct {
			Index int `json:"index"`
		}
		if err := f.Decode(&cmd); err != nil {
			return err
		}
		s.car.GoTo(cmd.Index)
	case "pause":
		s.car.Pause()
	case "play":
		s.car.Start()
	default:
		return unknownCommand(f.Type)
	}
	return nil
}

func (s *heroSession) Close() {
	s.car.Stop()
}

// search box

type searchSession struct {
	box  *suggest.Combobox
	conn *ws.Conn
}

type searchCommand struct {
	Text         string               `json:"text"`
	Type         models.SelectionType `json:"type"`
	Value        string               `json:"value"`
	PlaceAddress string               `json:"placeAddress"`
	Region       string               `json:"region"`
}

// Search serves /ws/search.
func (h *InteractiveHandler) Search(_ context.Context, _ *http.Request, c *ws.Conn) (ws.Session, error) {
	box := suggest.NewCombobox(h.providers, suggest.Options{
		Debounce:  h.timings.Debounce,
		AfterFunc: h.timings.AfterFunc,
		Logger:    h.logr.With(zap.String("conn_id", c.ID)),
		OnChange:  func(st suggest.State) { c.Emit("combobox", st) },
	})
	return &searchSession{box: box, conn: c}, nil
}

func (s *searchSession) Handle(_ context.Context, f ws.Frame) error {
	var cmd searchCommand
	if err := f.Decode(&cmd); err != nil {
		return err
	}

	switch f.Type {
	case "input":
		if !s.box.Input(cmd.Text) {
			// let the client put the previous text back
			s.conn.Emit("combobox", s.box.State())
		}
	case "focus":
		s.box.Focus()
	case "blur":
		s.box.Blur()
	case "select":
		if cmd.Type != models.SelectionCategory && cmd.Type != models.SelectionProvider {
			return fmt.Errorf("unknown selection type %q", cmd.Type)
		}
		s.box.Select(cmd.Type, cmd.Value)
	case "enter":
		s.box.Enter()
	case "submit":
		st := s.box.State()
		target, err := filters.ResolveHomeSearch(filters.HomeSearch{
			Selection:    st.Selection,
			TypedText:    st.Text,
			PlaceAddress: cmd.PlaceAddress,
			Region:       cmd.Region,
		})
		if errors.Is(err, filters.ErrEmptySearch) {
			return errors.New(filters.EmptySearchMessage)
		}
		if err != nil {
			return err
		}
		s.conn.Emit("navigate", map[string]string{"url": target})
	default:
		return unknownCommand(f.Type)
	}
	return nil
}

func (s *searchSession) Close() {
	s.box.Close()
}
