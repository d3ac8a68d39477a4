package routes

import (
	"net/http"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/config"
	"directory-bknd/internal/handlers"
	"directory-bknd/internal/logger"
	mdlwr "directory-bknd/internal/middleware"
	"directory-bknd/internal/services"
	"directory-bknd/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the long-lived services the router hands to its handlers.
type Deps struct {
	Locations *services.LocationService
	Favorites *services.FavoriteService
	Jobs      *services.JobService
	// Verifier may be nil, in which case every request is anonymous.
	Verifier mdlwr.TokenVerifier
	Revoker  *auth.Revoker
}

func NewRouter(deps Deps, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mdlwr.AccessLog(logr.Component("http")))

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessionMW := mdlwr.NewSessionMiddleware(deps.Verifier, deps.Revoker, cfg.Links, logr.Component("session"))
	r.Use(sessionMW.Attach)

	limit := cfg.DefaultPageLimit

	locationHandler := handlers.NewLocationHandler(deps.Locations, cfg.Links, logr.Component("locations"))
	jobHandler := handlers.NewJobHandler(deps.Jobs, logr.Component("jobs"))
	listingHandler := handlers.NewListingHandler(deps.Locations, limit, logr.Component("listing"))
	suggestHandler := handlers.NewSuggestHandler(deps.Locations, logr.Component("suggest"))
	favoriteHandler := handlers.NewFavoriteHandler(deps.Favorites, deps.Locations, logr.Component("favorites"))
	sessionHandler := handlers.NewSessionHandler(deps.Revoker, logr.Component("session"))
	interactive := handlers.NewInteractiveHandler(deps.Locations, deps.Locations, deps.Locations, limit, handlers.Timings{
		Debounce:           cfg.SearchDebounce,
		CarouselInterval:   cfg.CarouselInterval,
		CarouselTransition: cfg.CarouselTransition,
	}, logr.Component("interactive"))

	wsServer := ws.NewServer(cfg.AllowedOrigins, logr.Component("ws"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(sessionMW.RequireUser)
				r.Post("/logout", sessionHandler.Logout)
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", locationHandler.List)
			r.Get("/featured", locationHandler.Featured)
			r.Get("/slug/{slug}", locationHandler.GetBySlug)
			r.Get("/{id}/jobs", jobHandler.ListByLocation)
		})

		r.Get("/listing", listingHandler.Directory)
		r.Get("/suggestions", suggestHandler.Suggestions)
		r.Post("/search/resolve", suggestHandler.Resolve)

		r.Route("/favorites", func(r chi.Router) {
			r.Use(sessionMW.RequireUser)
			r.Get("/", favoriteHandler.List)
			r.Get("/listing", listingHandler.Favorites)
			r.Get("/ids", favoriteHandler.IDs)
			r.Post("/", favoriteHandler.Create)
			r.Post("/toggle", favoriteHandler.Toggle)
			r.Delete("/{favoriteId}", favoriteHandler.Delete)
		})
	})

	r.Route("/ws", func(r chi.Router) {
		r.Get("/listing", wsServer.Handler("listing", interactive.Listing))
		r.Get("/hero", wsServer.Handler("hero", interactive.Hero))
		r.Get("/search", wsServer.Handler("search", interactive.Search))
	})

	return r
}
