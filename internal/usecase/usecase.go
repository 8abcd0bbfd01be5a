// Package usecase contains the short-code lifecycle logic: creation with
// dedup and collision retry, redirect resolution with lazy expiration and
// click recording, and stats/analytics queries.
package usecase

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"time"

	"github.com/vadimbarashkov/shortly/internal/analytics"
	"github.com/vadimbarashkov/shortly/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short code is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

type urlRepository interface {
	Save(ctx context.Context, shortCode, originalURL string, expiresAt time.Time) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	RetrieveByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error)
	RecordClick(ctx context.Context, shortCode string, click entity.ClickEvent) (*entity.URL, error)
	Remove(ctx context.Context, shortCode string) error
}

type URLUseCase struct {
	shortCodeLength int
	urlTTL          time.Duration
	storageTimeout  time.Duration
	urlRepo         urlRepository
}

func New(shortCodeLength int, urlTTL, storageTimeout time.Duration, urlRepo urlRepository) *URLUseCase {
	return &URLUseCase{
		shortCodeLength: shortCodeLength,
		urlTTL:          urlTTL,
		storageTimeout:  storageTimeout,
		urlRepo:         urlRepo,
	}
}

// storageCtx bounds repository calls by the configured storage timeout.
func (uc *URLUseCase) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.storageTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, uc.storageTimeout)
}

// storageErr surfaces timed-out storage calls as entity.ErrStorageTimeout so
// callers can distinguish them from a missing record.
func storageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.ErrStorageTimeout
	}

	return err
}

// validateOriginalURL accepts only absolute http or https URLs with a host.
// Other schemes are rejected so a redirect never points outside the web.
func validateOriginalURL(originalURL string) error {
	u, err := neturl.Parse(originalURL)
	if err != nil || u.Host == "" {
		return entity.ErrInvalidURL
	}

	switch u.Scheme {
	case "http", "https":
		return nil
	default:
		return entity.ErrInvalidURL
	}
}

// ShortenURL returns the shortened URL for originalURL and whether a new
// record was created.
//
// If a live record for the same original URL already exists it is returned
// unchanged: no new record, no expiry refresh. Otherwise a short code is
// generated and persisted with expires_at = now + TTL, retrying generation
// on the rare short-code collision.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, bool, error) {
	const op = "usecase.URLUseCase.ShortenURL"
	const maxRetries = 5

	if err := validateOriginalURL(originalURL); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	existing, err := uc.urlRepo.RetrieveByOriginalURL(ctx, originalURL)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, entity.ErrURLNotFound) {
		return nil, false, fmt.Errorf("%s: failed to check for existing url: %w", op, storageErr(err))
	}

	expiresAt := time.Now().Add(uc.urlTTL)

	for i := 0; i < maxRetries; i++ {
		shortCode, err := gonanoid.New(uc.shortCodeLength)
		if err != nil {
			return nil, false, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		url, err := uc.urlRepo.Save(ctx, shortCode, originalURL, expiresAt)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, false, fmt.Errorf("%s: failed to shorten url: %w", op, storageErr(err))
		}

		return url, true, nil
	}

	return nil, false, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// ResolveShortCode resolves a short code for a redirect and records the visit.
//
// An expired record is removed on access and reported as entity.ErrURLExpired;
// cleanup is best effort, so the caller still sees the expiration even when
// the delete itself fails. On a live record the click counter and the event
// append commit together.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string, visitor entity.Visitor) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	ctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, storageErr(err))
	}

	now := time.Now()

	if url.Expired(now) {
		if remErr := uc.urlRepo.Remove(ctx, shortCode); remErr != nil && !errors.Is(remErr, entity.ErrURLNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errors.Join(entity.ErrURLExpired, remErr))
		}

		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
	}

	click := entity.ClickEvent{
		Timestamp: now,
		IP:        visitor.IP,
		UserAgent: visitor.UserAgent,
		Referrer:  visitor.Referrer,
	}
	if click.IP == "" {
		click.IP = entity.UnknownIP
	}
	if click.UserAgent == "" {
		click.UserAgent = entity.UnknownUserAgent
	}
	if click.Referrer == "" {
		click.Referrer = entity.DirectReferrer
	}

	url, err = uc.urlRepo.RecordClick(ctx, shortCode, click)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to record click: %w", op, storageErr(err))
	}

	return url, nil
}

// GetURLStats retrieves the record for the stats view. It never mutates state
// and never enforces expiration, which distinguishes it from ResolveShortCode.
func (uc *URLUseCase) GetURLStats(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURLStats"

	ctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, storageErr(err))
	}

	return url, nil
}

// GetURLAnalytics aggregates the record's click history into a summary.
func (uc *URLUseCase) GetURLAnalytics(ctx context.Context, shortCode string) (*analytics.Summary, error) {
	const op = "usecase.URLUseCase.GetURLAnalytics"

	ctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url analytics: %w", op, storageErr(err))
	}

	return analytics.Summarize(url, time.Now()), nil
}

// DeactivateURL deletes the URL associated with the provided short code.
func (uc *URLUseCase) DeactivateURL(ctx context.Context, shortCode string) error {
	const op = "usecase.URLUseCase.DeactivateURL"

	ctx, cancel := uc.storageCtx(ctx)
	defer cancel()

	if err := uc.urlRepo.Remove(ctx, shortCode); err != nil {
		return fmt.Errorf("%s: failed to deactivate url: %w", op, storageErr(err))
	}

	return nil
}
