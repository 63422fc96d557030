package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-city-weather/internal/api/city"
)

// Config contains dependencies needed for the router setup
type Config struct {
	CityHandler *city.HandlerImpl
	// RequireAPIKey guards the city mutation routes.
	RequireAPIKey  func(http.Handler) http.Handler
	APIKeyHeader   string
	AllowedOrigins []string
	EnableSwagger  bool
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer, StripSlashes) is
// expected to be applied before mounting this router in main.go.
//
// GET paths are matched by prefix: /weather..., /cities..., and the main
// page for anything else. Mutations exist only under /cities; elsewhere the
// fallback answers 405, except HEAD which always gets an empty 200.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()
	h := cfg.CityHandler

	// Set before routes are added so mounted sub-routers inherit them.
	r.NotFound(h.Fallback)
	r.MethodNotAllowed(h.Fallback)

	allowedHeaders := []string{"Accept", "Content-Type"}
	if cfg.APIKeyHeader != "" {
		allowedHeaders = append(allowedHeaders, cfg.APIKeyHeader)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: allowedHeaders,
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	if cfg.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/cities", func(r chi.Router) {
		r.Get("/", h.CitiesPage)
		r.Get("/*", h.CitiesPage)
		r.Head("/", h.Head)
		r.Head("/*", h.Head)

		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAPIKey)
			r.Post("/", h.CreateCity)
			r.Put("/", h.UpdateCity)
			r.Delete("/", h.DeleteCity)
		})
	})

	r.Get("/weather", h.WeatherPage)
	r.Get("/weather/*", h.WeatherPage)
	r.Head("/weather", h.Head)
	r.Head("/weather/*", h.Head)

	r.Head("/*", h.Head)
	r.Get("/*", h.MainPage)

	return r
}
