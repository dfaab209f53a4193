package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxPhotosPerSpot caps the number of live photos a spot may hold.
const MaxPhotosPerSpot = 10

var ErrTooManyPhotos = fmt.Errorf("a spot can hold at most %d photos", MaxPhotosPerSpot)

type Photo struct {
	ID        int64     `json:"id"`
	SpotID    int64     `json:"spot_id"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotosStore struct {
	db *pgxpool.Pool
}

// Add appends photos to a spot inside one transaction. The spot row is
// locked so the photo-count cap cannot be raced past by concurrent uploads,
// and a failing insert leaves no partial batch behind.
func (s *PhotosStore) Add(ctx context.Context, spotID, userID int64, urls []string) ([]Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var lockedID int64
	err = tx.QueryRow(ctx, `SELECT id FROM spots WHERE id = $1 FOR UPDATE`, spotID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing int
	err = tx.QueryRow(ctx, `SELECT COUNT(id) FROM spot_photos WHERE spot_id = $1`, spotID).Scan(&existing)
	if err != nil {
		return nil, err
	}
	if existing+len(urls) > MaxPhotosPerSpot {
		return nil, ErrTooManyPhotos
	}

	photos := make([]Photo, 0, len(urls))
	for _, url := range urls {
		photo := Photo{SpotID: spotID, UserID: userID, URL: url}
		err := tx.QueryRow(ctx, `
			INSERT INTO spot_photos (spot_id, user_id, url)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, spotID, userID, url).Scan(&photo.ID, &photo.CreatedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return photos, nil
}

func (s *PhotosStore) GetByID(ctx context.Context, photoID int64) (*Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var photo Photo
	err := s.db.QueryRow(ctx, `
		SELECT id, spot_id, user_id, url, created_at
		FROM spot_photos
		WHERE id = $1
	`, photoID).Scan(&photo.ID, &photo.SpotID, &photo.UserID, &photo.URL, &photo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (s *PhotosStore) ListForSpot(ctx context.Context, spotID int64) ([]Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, spot_id, user_id, url, created_at
		FROM spot_photos
		WHERE spot_id = $1
		ORDER BY created_at
	`, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []Photo{}
	for rows.Next() {
		var photo Photo
		err := rows.Scan(&photo.ID, &photo.SpotID, &photo.UserID, &photo.URL, &photo.CreatedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (s *PhotosStore) Delete(ctx context.Context, photoID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, `DELETE FROM spot_photos WHERE id = $1`, photoID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
