// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL together with
// its recorded click history, and the domain error definitions shared by the
// other layers.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned when a short code is resolved past its expiration time.
	// Detection removes the record, so subsequent lookups return ErrURLNotFound.
	ErrURLExpired = errors.New("url expired")
	// ErrInvalidURL is returned when the original URL is not an absolute URL with a scheme and host.
	ErrInvalidURL = errors.New("invalid url")
	// ErrStorageTimeout is returned when a storage call exceeds the configured request-level timeout.
	ErrStorageTimeout = errors.New("storage timeout")
)

// Defaults recorded on a click event when the visitor context is unavailable.
const (
	UnknownIP        = "unknown"
	UnknownUserAgent = "unknown"
	DirectReferrer   = "direct"
)

// URL represents a shortened URL.
type URL struct {
	ID          int64        // ID is the unique identifier of the URL in the database.
	ShortCode   string       // ShortCode is the generated code used to shorten the original URL.
	OriginalURL string       // OriginalURL is the full URL that the short code resolves to.
	Clicks      int64        // Clicks is the number of recorded visits; equals len(ClickEvents) when events are loaded.
	ClickEvents []ClickEvent // ClickEvents is the chronological visit history owned by this URL.
	CreatedAt   time.Time    // CreatedAt is the timestamp when the URL was created.
	ExpiresAt   time.Time    // ExpiresAt is CreatedAt plus the configured TTL, fixed at creation.
}

// Expired reports whether the URL has lapsed at the given moment.
func (u *URL) Expired(now time.Time) bool {
	return u.ExpiresAt.Before(now)
}

// ClickEvent represents one recorded visit to a short code. It has no identity
// of its own outside the URL that owns it.
type ClickEvent struct {
	Timestamp time.Time // Timestamp is the time of the visit.
	IP        string    // IP is the visitor address, UnknownIP when unavailable.
	UserAgent string    // UserAgent is the visitor client string, UnknownUserAgent when unavailable.
	Referrer  string    // Referrer is the visit origin, DirectReferrer when absent.
}

// Visitor carries the caller-supplied request context recorded on a redirect.
// Empty fields fall back to the documented defaults when the click is recorded.
type Visitor struct {
	IP        string
	UserAgent string
	Referrer  string
}
