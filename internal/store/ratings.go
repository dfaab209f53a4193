package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Rating struct {
	ID        int64     `json:"id"`
	SpotID    int64     `json:"spot_id"`
	UserID    int64     `json:"user_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type RatingsStore struct {
	db *pgxpool.Pool
}

// Rate upserts the (spot, user) rating and recomputes the spot's denormalized
// aggregate in the same transaction. The spot row is locked first, so
// concurrent raters serialize on it and the recompute always sees every
// committed rating. The aggregate is always recalculated from scratch:
// ratings can be overwritten, and incremental averaging cannot reverse a
// prior contribution without storing it.
func (s *RatingsStore) Rate(ctx context.Context, spotID, userID int64, value int) (float64, int, error) {
	if value < 1 || value > 5 {
		return 0, 0, ErrInvalidRating
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	var lockedID int64
	err = tx.QueryRow(ctx, `SELECT id FROM spots WHERE id = $1 FOR UPDATE`, spotID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}

	// created_at is untouched on conflict: re-rating keeps the original
	// submission time.
	_, err = tx.Exec(ctx, `
		INSERT INTO spot_ratings (spot_id, user_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (spot_id, user_id) DO UPDATE SET value = EXCLUDED.value
	`, spotID, userID, value)
	if err != nil {
		return 0, 0, err
	}

	var avg float64
	var count int
	err = tx.QueryRow(ctx, `
		UPDATE spots
		SET average_rating = agg.avg, ratings_count = agg.cnt
		FROM (
			SELECT ROUND(COALESCE(AVG(value), 0), 1) AS avg, COUNT(id) AS cnt
			FROM spot_ratings
			WHERE spot_id = $1
		) agg
		WHERE id = $1
		RETURNING average_rating, ratings_count
	`, spotID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

// GetUserRating returns the caller's own rating for a spot, or ErrNotFound
// when they have not rated it.
func (s *RatingsStore) GetUserRating(ctx context.Context, spotID, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var value int
	err := s.db.QueryRow(ctx, `
		SELECT value FROM spot_ratings WHERE spot_id = $1 AND user_id = $2
	`, spotID, userID).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return value, nil
}
