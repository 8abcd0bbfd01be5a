package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortly/internal/analytics"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL string) (*entity.URL, bool, error)
	ResolveShortCode(ctx context.Context, shortCode string, visitor entity.Visitor) (*entity.URL, error)
	GetURLStats(ctx context.Context, shortCode string) (*entity.URL, error)
	GetURLAnalytics(ctx context.Context, shortCode string) (*analytics.Summary, error)
	DeactivateURL(ctx context.Context, shortCode string) error
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
	baseURL  string
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, baseURL string) *urlHandler {
	return &urlHandler{
		useCase:  useCase,
		validate: validate,
		baseURL:  baseURL,
	}
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, newAPIError("URL is required"))
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, newAPIError("Invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		msg := "Invalid URL format"

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				if fieldErr.Tag() == "required" {
					msg = "URL is required"
					break
				}
			}
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, newAPIError(msg))
		return
	}

	url, created, err := h.useCase.ShortenURL(r.Context(), req.OriginalURL)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidURL) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, newAPIError("Invalid URL format"))
			return
		}
		if errors.Is(err, entity.ErrStorageTimeout) {
			render.Status(r, http.StatusGatewayTimeout)
			render.JSON(w, r, newAPIError("Storage timeout"))
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, newAPIError("Server error"))
		return
	}

	if !created {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, toShortenResponse(url, h.baseURL, "Existing shortened URL found"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toShortenResponse(url, h.baseURL, "URL successfully shortened"))
}

func (h *urlHandler) redirectShortCode(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, err := h.useCase.ResolveShortCode(r.Context(), shortCode, visitorFromRequest(r))
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrURLNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, redirectError{Message: "URL not found", Status: http.StatusNotFound})
		case errors.Is(err, entity.ErrURLExpired):
			render.Status(r, http.StatusGone)
			render.JSON(w, r, redirectError{Message: "This URL has expired and been removed", Status: http.StatusGone})
		case errors.Is(err, entity.ErrStorageTimeout):
			render.Status(r, http.StatusGatewayTimeout)
			render.JSON(w, r, redirectError{Message: "Storage timeout", Status: http.StatusGatewayTimeout})
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, redirectError{Message: "Internal server error", Status: http.StatusInternalServerError})
		}
		return
	}

	// Redirects must never be cached: future hits have to be re-resolved so
	// every visit is counted and an expired code is never served from a cache.
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, url.OriginalURL, http.StatusMovedPermanently)
}

func (h *urlHandler) getURLStats(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, err := h.useCase.GetURLStats(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, newAPIError("URL not found"))
			return
		}
		if errors.Is(err, entity.ErrStorageTimeout) {
			render.Status(r, http.StatusGatewayTimeout)
			render.JSON(w, r, newAPIError("Storage timeout"))
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, newAPIError("Server error"))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toStatsResponse(url, h.baseURL))
}

func (h *urlHandler) getURLAnalytics(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	summary, err := h.useCase.GetURLAnalytics(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, newAPIError("URL not found"))
			return
		}
		if errors.Is(err, entity.ErrStorageTimeout) {
			render.Status(r, http.StatusGatewayTimeout)
			render.JSON(w, r, newAPIError("Storage timeout"))
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, newAPIError("Server error"))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toAnalyticsResponse(summary))
}

func (h *urlHandler) deactivateURL(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	if err := h.useCase.DeactivateURL(r.Context(), shortCode); err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, newAPIError("URL not found"))
			return
		}
		if errors.Is(err, entity.ErrStorageTimeout) {
			render.Status(r, http.StatusGatewayTimeout)
			render.JSON(w, r, newAPIError("Storage timeout"))
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, newAPIError("Server error"))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, deactivateResponse{Success: true, Message: "URL deactivated"})
}

// visitorFromRequest collects the click context recorded on a redirect. The
// RealIP middleware has already rewritten RemoteAddr by the time this runs.
func visitorFromRequest(r *http.Request) entity.Visitor {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return entity.Visitor{
		IP:        ip,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}
