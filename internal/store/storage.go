package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mangal/internal/params"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		UpdateProfile(context.Context, int64, map[string]interface{}) error
	}
	Spots interface {
		Create(ctx context.Context, spot *Spot, photoURLs []string) error
		GetByID(context.Context, int64) (*Spot, error)
		List(context.Context, SpotFilter, params.Pagination) ([]SpotSummary, error)
		ListByUser(ctx context.Context, userID int64) ([]Spot, error)
		Update(ctx context.Context, spotID int64, updates map[string]interface{}) error
		Delete(context.Context, int64) error
		IsOwner(ctx context.Context, spotID, userID int64) (bool, error)
	}
	Ratings interface {
		Rate(ctx context.Context, spotID, userID int64, value int) (avg float64, count int, err error)
		GetUserRating(ctx context.Context, spotID, userID int64) (int, error)
	}
	Photos interface {
		Add(ctx context.Context, spotID, userID int64, urls []string) ([]Photo, error)
		GetByID(context.Context, int64) (*Photo, error)
		ListForSpot(context.Context, int64) ([]Photo, error)
		Delete(context.Context, int64) error
	}
	Complaints interface {
		Create(context.Context, *Complaint) error
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:      &UsersStore{db},
		Spots:      &SpotsStore{db},
		Ratings:    &RatingsStore{db},
		Photos:     &PhotosStore{db},
		Complaints: &ComplaintsStore{db},
	}
}
