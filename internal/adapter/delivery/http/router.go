// Package http provides the HTTP delivery layer for the URL shortener
// service. It contains the handlers and schema types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// NewRouter initializes and returns a new Chi router configured with
// middleware and routes for the URL shortener API. baseURL is the external
// prefix used to compose short URLs in responses.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, baseURL string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	validate := validator.New()
	h := newURLHandler(urlUseCase, validate, baseURL)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlePing)
		r.Post("/shorten", h.shortenURL)

		r.Route("/{shortCode}", func(r chi.Router) {
			r.Get("/analytics", h.getURLAnalytics)
			r.Delete("/", h.deactivateURL)
		})
	})

	r.Get("/{shortCode}", h.redirectShortCode)
	r.Get("/{shortCode}/stats", h.getURLStats)

	return r
}
