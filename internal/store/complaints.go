package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Complaint struct {
	ID        int64     `json:"id"`
	SpotID    int64     `json:"spot_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

type ComplaintsStore struct {
	db *pgxpool.Pool
}

// Create records a complaint. The (spot_id, user_id) unique constraint makes
// a second complaint from the same user a conflict, and the foreign key makes
// an unknown spot a not-found.
func (s *ComplaintsStore) Create(ctx context.Context, complaint *Complaint) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, `
		INSERT INTO spot_complaints (spot_id, user_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, complaint.SpotID, complaint.UserID, complaint.Reason).Scan(&complaint.ID, &complaint.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation
				return ErrConflict
			case "23503": // foreign_key_violation
				return ErrNotFound
			}
		}
		return err
	}
	return nil
}
