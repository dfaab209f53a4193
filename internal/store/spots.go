package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mangal/internal/params"
)

// Amenities are the filterable boolean attributes of a spot. The JSON field
// names match AmenityColumns, which is the single source of truth for the
// column set shared by the filter parser and the partial-update whitelist.
type Amenities struct {
	PrivateTerritory bool `json:"private_territory"`
	ShopNearby       bool `json:"shop_nearby"`
	Gazebos          bool `json:"gazebos"`
	NearWater        bool `json:"near_water"`
	Fishing          bool `json:"fishing"`
	TrashCans        bool `json:"trash_cans"`
	Tables           bool `json:"tables"`
	Benches          bool `json:"benches"`
	FirePit          bool `json:"fire_pit"`
	Toilet           bool `json:"toilet"`
	CarAccess        bool `json:"car_access"`
}

// AmenityColumns lists the amenity column names in the same order as the
// fields of Amenities.
var AmenityColumns = []string{
	"private_territory",
	"shop_nearby",
	"gazebos",
	"near_water",
	"fishing",
	"trash_cans",
	"tables",
	"benches",
	"fire_pit",
	"toilet",
	"car_access",
}

// fields returns pointers to the amenity flags in AmenityColumns order, so
// inserts and scans stay aligned with the canonical column list.
func (a *Amenities) fields() []*bool {
	return []*bool{
		&a.PrivateTerritory,
		&a.ShopNearby,
		&a.Gazebos,
		&a.NearWater,
		&a.Fishing,
		&a.TrashCans,
		&a.Tables,
		&a.Benches,
		&a.FirePit,
		&a.Toilet,
		&a.CarAccess,
	}
}

func isAmenityColumn(name string) bool {
	for _, col := range AmenityColumns {
		if col == name {
			return true
		}
	}
	return false
}

// Spot is a user-submitted kebab spot with its full attribute set.
type Spot struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Hidden        bool      `json:"hidden"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int       `json:"ratings_count"`
	Amenities     Amenities `json:"amenities"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Filled by the photo store for detail views.
	Photos []Photo `json:"photos,omitempty"`
}

// SpotSummary is the trimmed shape returned by radius queries.
type SpotSummary struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

type SpotsStore struct {
	db *pgxpool.Pool
}

// Create inserts the spot and its photo rows in one transaction, so a failed
// photo insert never leaves a committed spot behind.
func (s *SpotsStore) Create(ctx context.Context, spot *Spot, photoURLs []string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO spots (user_id, name, description, coordinates, %s)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography,
		        $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`, strings.Join(AmenityColumns, ", "))

	args := []interface{}{
		spot.UserID,
		spot.Name,
		spot.Description,
		spot.Longitude,
		spot.Latitude,
	}
	for _, flag := range spot.Amenities.fields() {
		args = append(args, *flag)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&spot.ID, &spot.CreatedAt, &spot.UpdatedAt)
	if err != nil {
		return err
	}

	for _, url := range photoURLs {
		var photo Photo
		err := tx.QueryRow(ctx, `
			INSERT INTO spot_photos (spot_id, user_id, url)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, spot.ID, spot.UserID, url).Scan(&photo.ID, &photo.CreatedAt)
		if err != nil {
			return err
		}
		photo.SpotID = spot.ID
		photo.UserID = spot.UserID
		photo.URL = url
		spot.Photos = append(spot.Photos, photo)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a spot with its full attribute set. Photos are loaded
// separately by the photo store.
func (s *SpotsStore) GetByID(ctx context.Context, spotID int64) (*Spot, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, user_id, name, description,
		       ST_Y(coordinates::geometry), ST_X(coordinates::geometry),
		       hidden, average_rating, ratings_count, %s, created_at, updated_at
		FROM spots
		WHERE id = $1
	`, strings.Join(AmenityColumns, ", "))

	var spot Spot
	dest := []interface{}{
		&spot.ID,
		&spot.UserID,
		&spot.Name,
		&spot.Description,
		&spot.Latitude,
		&spot.Longitude,
		&spot.Hidden,
		&spot.AverageRating,
		&spot.RatingsCount,
	}
	for _, flag := range spot.Amenities.fields() {
		dest = append(dest, flag)
	}
	dest = append(dest, &spot.CreatedAt, &spot.UpdatedAt)

	if err := s.db.QueryRow(ctx, query, spotID).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &spot, nil
}

// List runs the radius query. Hidden spots are excluded before any other
// constraint; the distance test is a geodesic containment test on the stored
// geography, not a bounding-box approximation. Without a center there is
// nothing to bound the query, so the result is empty.
func (s *SpotsStore) List(ctx context.Context, filter SpotFilter, p params.Pagination) ([]SpotSummary, error) {
	if !filter.HasCenter() {
		return []SpotSummary{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, name,
		       ST_Y(coordinates::geometry), ST_X(coordinates::geometry),
		       average_rating, ratings_count
		FROM spots
		WHERE NOT hidden
		  AND ST_DWithin(coordinates, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
	`
	args := []interface{}{*filter.Lon, *filter.Lat, *filter.RadiusKm * 1000}

	for _, amenity := range filter.Amenities {
		// Amenity names come from AmenityColumns, never from raw input.
		query += fmt.Sprintf(" AND %s = TRUE", amenity)
	}

	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		query += fmt.Sprintf(" AND average_rating >= $%d", len(args))
	}

	args = append(args, p.Limit, p.Offset)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := []SpotSummary{}
	for rows.Next() {
		var sp SpotSummary
		err := rows.Scan(
			&sp.ID,
			&sp.Name,
			&sp.Latitude,
			&sp.Longitude,
			&sp.AverageRating,
			&sp.RatingsCount,
		)
		if err != nil {
			return nil, err
		}
		spots = append(spots, sp)
	}
	return spots, rows.Err()
}

// Update applies a whitelisted partial update. Unknown fields are rejected so
// a client can never touch the owner, the aggregate columns, or timestamps.
func (s *SpotsStore) Update(ctx context.Context, spotID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	setClauses := []string{}
	args := []interface{}{}

	for key, value := range updates {
		switch {
		case key == "name" || key == "description":
			args = append(args, value)
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, len(args)))
		case key == "location":
			// JSON arrays decode as []interface{} with float64 members.
			raw, ok := value.([]interface{})
			if !ok || len(raw) != 2 {
				return fmt.Errorf("invalid location data, expected [longitude, latitude]")
			}
			lon, lonOK := raw[0].(float64)
			lat, latOK := raw[1].(float64)
			if !lonOK || !latOK {
				return fmt.Errorf("invalid location data, expected [longitude, latitude]")
			}
			args = append(args, lon, lat)
			setClauses = append(setClauses, fmt.Sprintf(
				"coordinates = ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography", len(args)-1, len(args)))
		case key == "hidden":
			flag, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid hidden value, expected a boolean")
			}
			args = append(args, flag)
			setClauses = append(setClauses, fmt.Sprintf("hidden = $%d", len(args)))
		case isAmenityColumn(key):
			flag, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid %s value, expected a boolean", key)
			}
			args = append(args, flag)
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, len(args)))
		default:
			return fmt.Errorf("unsupported field: %s", key)
		}
	}

	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, spotID)
	query := fmt.Sprintf("UPDATE spots SET %s WHERE id = $%d", strings.Join(setClauses, ", "), len(args))

	res, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the spot; ratings, photos and complaints cascade in the
// database.
// ListByUser returns every spot the user has submitted, newest first. The
// caller is looking at their own history, so hidden spots are included.
func (s *SpotsStore) ListByUser(ctx context.Context, userID int64) ([]Spot, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, user_id, name, description,
		       ST_Y(coordinates::geometry), ST_X(coordinates::geometry),
		       hidden, average_rating, ratings_count, %s, created_at, updated_at
		FROM spots
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, strings.Join(AmenityColumns, ", "))

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := []Spot{}
	for rows.Next() {
		var spot Spot
		dest := []interface{}{
			&spot.ID,
			&spot.UserID,
			&spot.Name,
			&spot.Description,
			&spot.Latitude,
			&spot.Longitude,
			&spot.Hidden,
			&spot.AverageRating,
			&spot.RatingsCount,
		}
		for _, flag := range spot.Amenities.fields() {
			dest = append(dest, flag)
		}
		dest = append(dest, &spot.CreatedAt, &spot.UpdatedAt)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		spots = append(spots, spot)
	}
	return spots, rows.Err()
}

func (s *SpotsStore) Delete(ctx context.Context, spotID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, `DELETE FROM spots WHERE id = $1`, spotID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SpotsStore) IsOwner(ctx context.Context, spotID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var ownerID int64
	err := s.db.QueryRow(ctx, `SELECT user_id FROM spots WHERE id = $1`, spotID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	return ownerID == userID, nil
}
