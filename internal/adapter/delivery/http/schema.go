package http

import (
	"time"

	"github.com/vadimbarashkov/shortly/internal/analytics"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

// shortenRequest represents the payload for a shorten request.
type shortenRequest struct {
	OriginalURL string `json:"originalUrl" validate:"required,url"`
}

// shortenResponse is returned for both freshly created and deduplicated URLs;
// only the status code and message differ.
type shortenResponse struct {
	Success     bool      `json:"success"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	ShortCode   string    `json:"shortCode"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
	Message     string    `json:"message"`
}

func toShortenResponse(url *entity.URL, baseURL, msg string) shortenResponse {
	return shortenResponse{
		Success:     true,
		ShortURL:    baseURL + "/" + url.ShortCode,
		OriginalURL: url.OriginalURL,
		ShortCode:   url.ShortCode,
		ExpiresAt:   url.ExpiresAt,
		CreatedAt:   url.CreatedAt,
		Message:     msg,
	}
}

// statsResponse represents the read-only stats view of a shortened URL.
type statsResponse struct {
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func toStatsResponse(url *entity.URL, baseURL string) statsResponse {
	return statsResponse{
		OriginalURL: url.OriginalURL,
		ShortURL:    baseURL + "/" + url.ShortCode,
		Clicks:      url.Clicks,
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
	}
}

// clickEventResponse represents one timeline entry in the analytics view.
type clickEventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}

// analyticsResponse represents the aggregated analytics view.
type analyticsResponse struct {
	TotalClicks   int64                `json:"totalClicks"`
	ClicksLast24h int64                `json:"clicksLast24h"`
	Devices       map[string]int64     `json:"devices"`
	Timeline      []clickEventResponse `json:"timeline"`
}

func toAnalyticsResponse(summary *analytics.Summary) analyticsResponse {
	timeline := make([]clickEventResponse, 0, len(summary.Timeline))
	for _, click := range summary.Timeline {
		timeline = append(timeline, clickEventResponse{
			Timestamp: click.Timestamp,
			IP:        click.IP,
			UserAgent: click.UserAgent,
			Referrer:  click.Referrer,
		})
	}

	return analyticsResponse{
		TotalClicks:   summary.TotalClicks,
		ClicksLast24h: summary.ClicksLast24h,
		Devices:       summary.Devices,
		Timeline:      timeline,
	}
}

// apiError is the error shape of the JSON API endpoints.
type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func newAPIError(msg string) apiError {
	return apiError{Success: false, Error: msg}
}

// redirectError is the error shape rendered for the redirect endpoint, which
// is hit by browsers rather than API clients.
type redirectError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// deactivateResponse confirms an administrative delete.
type deactivateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
