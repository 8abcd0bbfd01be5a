// Package postgres implements the URL repository on top of PostgreSQL.
//
// Click events live in a child table owned by their URL row; recording a
// click increments the counter and inserts the event inside one transaction,
// so the clicks counter always equals the number of stored events and
// concurrent redirects on the same code serialize on the row lock.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type urlDB struct {
	ID          int64     `db:"id"`
	ShortCode   string    `db:"short_code"`
	OriginalURL string    `db:"original_url"`
	Clicks      int64     `db:"clicks"`
	CreatedAt   time.Time `db:"created_at"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		Clicks:      u.Clicks,
		CreatedAt:   u.CreatedAt,
		ExpiresAt:   u.ExpiresAt,
	}
}

type clickEventDB struct {
	ID         int64     `db:"id"`
	URLID      int64     `db:"url_id"`
	OccurredAt time.Time `db:"occurred_at"`
	IP         string    `db:"ip"`
	UserAgent  string    `db:"user_agent"`
	Referrer   string    `db:"referrer"`
}

func (c *clickEventDB) toEntity() entity.ClickEvent {
	return entity.ClickEvent{
		Timestamp: c.OccurredAt,
		IP:        c.IP,
		UserAgent: c.UserAgent,
		Referrer:  c.Referrer,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

// Save inserts a new URL row with a zero click counter.
func (r *URLRepository) Save(ctx context.Context, shortCode, originalURL string, expiresAt time.Time) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(short_code, original_url, expires_at) VALUES ($1, $2, $3) RETURNING *`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode, originalURL, expiresAt); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// RetrieveByShortCode returns the URL row together with its click events in
// insertion order.
func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByShortCode"
	const query = `SELECT * FROM urls WHERE short_code = $1`
	const eventsQuery = `SELECT * FROM click_events WHERE url_id = $1 ORDER BY id`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	var events []clickEventDB

	if err := r.db.SelectContext(ctx, &events, eventsQuery, url.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to get rows from click_events table: %w", op, err)
	}

	res := url.toEntity()
	res.ClickEvents = make([]entity.ClickEvent, 0, len(events))
	for _, e := range events {
		res.ClickEvents = append(res.ClickEvents, e.toEntity())
	}

	return res, nil
}

// RetrieveByOriginalURL returns the live URL row for the given original URL,
// skipping rows that have already expired but not yet been purged.
func (r *URLRepository) RetrieveByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByOriginalURL"
	const query = `SELECT * FROM urls WHERE original_url = $1 AND expires_at > now() LIMIT 1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, originalURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// RecordClick increments the click counter and appends the event atomically.
// The counter update and the event insert either both commit or both roll
// back, so a cancelled request never leaves a half-recorded visit.
func (r *URLRepository) RecordClick(ctx context.Context, shortCode string, click entity.ClickEvent) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RecordClick"
	const updateQuery = `UPDATE urls SET clicks = clicks + 1 WHERE short_code = $1 RETURNING *`
	const insertQuery = `INSERT INTO click_events(url_id, occurred_at, ip, user_agent, referrer) VALUES ($1, $2, $3, $4, $5)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var url urlDB

	if err := tx.GetContext(ctx, &url, updateQuery, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, insertQuery, url.ID, click.Timestamp, click.IP, click.UserAgent, click.Referrer); err != nil {
		return nil, fmt.Errorf("%s: failed to insert into click_events table: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return url.toEntity(), nil
}

// Remove deletes the URL row; its click events go with it via the cascade.
func (r *URLRepository) Remove(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.postgres.URLRepository.Remove"
	const query = `DELETE FROM urls WHERE short_code = $1`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from urls table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}
