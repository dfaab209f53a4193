package main

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"mangal/internal/geocode"
	"mangal/internal/params"
	"mangal/internal/ratelimiter"
	"mangal/internal/sharecode"
	"mangal/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// testAuthenticator accepts any token and resolves it to user ID 1.
type testAuthenticator struct{}

func (testAuthenticator) GenerateTokens(userID int64) (string, string, error) {
	return "access", "refresh", nil
}

func (testAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return &jwt.Token{Claims: jwt.MapClaims{"sub": float64(1)}, Valid: true}, nil
}

func (testAuthenticator) ValidateRefreshToken(token string) (*jwt.Token, error) {
	return &jwt.Token{Claims: jwt.MapClaims{"sub": float64(1)}, Valid: true}, nil
}

type mockUsersStore struct {
	GetByIDFunc func(ctx context.Context, id int64) (*store.User, error)
}

func (m *mockUsersStore) Create(ctx context.Context, user *store.User) error { return nil }

func (m *mockUsersStore) GetByID(ctx context.Context, id int64) (*store.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &store.User{ID: id, Email: "tester@example.com"}, nil
}

func (m *mockUsersStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	return nil, store.ErrNotFound
}

func (m *mockUsersStore) UpdateProfile(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

type mockSpotsStore struct {
	CreateFunc     func(ctx context.Context, spot *store.Spot, photoURLs []string) error
	GetByIDFunc    func(ctx context.Context, id int64) (*store.Spot, error)
	ListFunc       func(ctx context.Context, filter store.SpotFilter, p params.Pagination) ([]store.SpotSummary, error)
	ListByUserFunc func(ctx context.Context, userID int64) ([]store.Spot, error)
	UpdateFunc     func(ctx context.Context, spotID int64, updates map[string]interface{}) error
	DeleteFunc     func(ctx context.Context, id int64) error
	IsOwnerFunc    func(ctx context.Context, spotID, userID int64) (bool, error)
}

func (m *mockSpotsStore) Create(ctx context.Context, spot *store.Spot, photoURLs []string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, spot, photoURLs)
	}
	return nil
}

func (m *mockSpotsStore) GetByID(ctx context.Context, id int64) (*store.Spot, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &store.Spot{ID: id, Name: "Test Spot"}, nil
}

func (m *mockSpotsStore) List(ctx context.Context, filter store.SpotFilter, p params.Pagination) ([]store.SpotSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, p)
	}
	return []store.SpotSummary{}, nil
}

func (m *mockSpotsStore) ListByUser(ctx context.Context, userID int64) ([]store.Spot, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []store.Spot{}, nil
}

func (m *mockSpotsStore) Update(ctx context.Context, spotID int64, updates map[string]interface{}) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, spotID, updates)
	}
	return nil
}

func (m *mockSpotsStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSpotsStore) IsOwner(ctx context.Context, spotID, userID int64) (bool, error) {
	if m.IsOwnerFunc != nil {
		return m.IsOwnerFunc(ctx, spotID, userID)
	}
	return true, nil
}

type mockRatingsStore struct {
	RateFunc          func(ctx context.Context, spotID, userID int64, value int) (float64, int, error)
	GetUserRatingFunc func(ctx context.Context, spotID, userID int64) (int, error)
}

func (m *mockRatingsStore) Rate(ctx context.Context, spotID, userID int64, value int) (float64, int, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, spotID, userID, value)
	}
	return float64(value), 1, nil
}

func (m *mockRatingsStore) GetUserRating(ctx context.Context, spotID, userID int64) (int, error) {
	if m.GetUserRatingFunc != nil {
		return m.GetUserRatingFunc(ctx, spotID, userID)
	}
	return 0, store.ErrNotFound
}

type mockPhotosStore struct {
	AddFunc         func(ctx context.Context, spotID, userID int64, urls []string) ([]store.Photo, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*store.Photo, error)
	ListForSpotFunc func(ctx context.Context, spotID int64) ([]store.Photo, error)
	DeleteFunc      func(ctx context.Context, id int64) error
}

func (m *mockPhotosStore) Add(ctx context.Context, spotID, userID int64, urls []string) ([]store.Photo, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, spotID, userID, urls)
	}
	return nil, nil
}

func (m *mockPhotosStore) GetByID(ctx context.Context, id int64) (*store.Photo, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockPhotosStore) ListForSpot(ctx context.Context, spotID int64) ([]store.Photo, error) {
	if m.ListForSpotFunc != nil {
		return m.ListForSpotFunc(ctx, spotID)
	}
	return []store.Photo{}, nil
}

func (m *mockPhotosStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockComplaintsStore struct {
	CreateFunc func(ctx context.Context, complaint *store.Complaint) error
}

func (m *mockComplaintsStore) Create(ctx context.Context, complaint *store.Complaint) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, complaint)
	}
	return nil
}

func newMockStorage() store.Storage {
	return store.Storage{
		Users:      &mockUsersStore{},
		Spots:      &mockSpotsStore{},
		Ratings:    &mockRatingsStore{},
		Photos:     &mockPhotosStore{},
		Complaints: &mockComplaintsStore{},
	}
}

type mockMailer struct {
	SendFunc func(templateFile, username, email string, data any) (int, error)
}

func (m *mockMailer) Send(templateFile, username, email string, data any) (int, error) {
	if m.SendFunc != nil {
		return m.SendFunc(templateFile, username, email, data)
	}
	return 200, nil
}

type mockPhotoStorage struct {
	UploadFunc func(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	DeleteFunc func(ctx context.Context, photoURL string) error
}

func (m *mockPhotoStorage) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, files)
	}
	urls := make([]string, len(files))
	for i := range files {
		urls[i] = fmt.Sprintf("https://res.cloudinary.com/test/image/upload/v1/spots/spot_%d.png", i)
	}
	return urls, nil
}

func (m *mockPhotoStorage) Delete(ctx context.Context, photoURL string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, photoURL)
	}
	return nil
}

type mockGeocoder struct {
	ResolveFunc func(ctx context.Context, name string) (*geocode.Place, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, name string) (*geocode.Place, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, name)
	}
	return &geocode.Place{Name: name, Latitude: 52.52, Longitude: 13.405}, nil
}

func newTestApplication(t *testing.T, storage store.Storage) *application {
	t.Helper()

	codec, err := sharecode.New("test-salt")
	if err != nil {
		t.Fatal(err)
	}

	return &application{
		config: config{
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		store:         storage,
		logger:        zap.NewNop().Sugar(),
		photos:        &mockPhotoStorage{},
		mailer:        &mockMailer{},
		authenticator: testAuthenticator{},
		geocoder:      &mockGeocoder{},
		shareCodes:    codec,
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected response code %d, got %d", expected, actual)
	}
}
