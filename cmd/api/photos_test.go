package main

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"mangal/internal/store"
)

// photosFormRequest builds a multipart request carrying n valid PNG parts
// under the "photos" field.
func photosFormRequest(t *testing.T, target string, n int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for i := 0; i < n; i++ {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="p%d.png"`, i))
		h.Set("Content-Type", "image/png")
		fw, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(pngBytes(t)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, target, &body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func TestAddSpotPhotos(t *testing.T) {
	storage := newMockStorage()
	app := newTestApplication(t, storage)
	mux := app.mount()

	spots := storage.Spots.(*mockSpotsStore)
	photos := storage.Photos.(*mockPhotosStore)
	blobs := app.photos.(*mockPhotoStorage)

	t.Run("should append photos for the owner", func(t *testing.T) {
		photos.AddFunc = func(ctx context.Context, spotID, userID int64, urls []string) ([]store.Photo, error) {
			if spotID != 7 || userID != 1 || len(urls) != 2 {
				t.Errorf("Add(%d, %d, %v)", spotID, userID, urls)
			}
			return []store.Photo{{ID: 1}, {ID: 2}}, nil
		}
		defer func() { photos.AddFunc = nil }()

		rr := executeRequest(photosFormRequest(t, "/v1/spots/7/photos", 2), mux)
		checkResponseCode(t, http.StatusCreated, rr.Code)
	})

	t.Run("should forbid a non-owner before any upload", func(t *testing.T) {
		spots.IsOwnerFunc = func(ctx context.Context, spotID, userID int64) (bool, error) {
			return false, nil
		}
		defer func() { spots.IsOwnerFunc = nil }()

		uploaded := false
		blobs.UploadFunc = func(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
			uploaded = true
			return nil, nil
		}
		defer func() { blobs.UploadFunc = nil }()

		rr := executeRequest(photosFormRequest(t, "/v1/spots/7/photos", 1), mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)

		if uploaded {
			t.Error("photos were uploaded for a non-owner")
		}
	})

	t.Run("should return 404 for an unknown spot", func(t *testing.T) {
		spots.IsOwnerFunc = func(ctx context.Context, spotID, userID int64) (bool, error) {
			return false, store.ErrNotFound
		}
		defer func() { spots.IsOwnerFunc = nil }()

		rr := executeRequest(photosFormRequest(t, "/v1/spots/999/photos", 1), mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should reject a form without photos", func(t *testing.T) {
		req := httptestRequest(t, http.MethodPost, "/v1/spots/7/photos", "")
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reclaim uploaded assets when the store rejects the batch", func(t *testing.T) {
		photos.AddFunc = func(ctx context.Context, spotID, userID int64, urls []string) ([]store.Photo, error) {
			return nil, store.ErrTooManyPhotos
		}
		defer func() { photos.AddFunc = nil }()

		var deleted []string
		blobs.DeleteFunc = func(ctx context.Context, photoURL string) error {
			deleted = append(deleted, photoURL)
			return nil
		}
		defer func() { blobs.DeleteFunc = nil }()

		rr := executeRequest(photosFormRequest(t, "/v1/spots/7/photos", 2), mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)

		if len(deleted) != 2 {
			t.Errorf("deleted %d assets, want 2", len(deleted))
		}
	})
}

func TestDeletePhoto(t *testing.T) {
	storage := newMockStorage()
	app := newTestApplication(t, storage)
	mux := app.mount()

	photos := storage.Photos.(*mockPhotosStore)

	t.Run("should forbid deleting someone else's photo", func(t *testing.T) {
		photos.GetByIDFunc = func(ctx context.Context, id int64) (*store.Photo, error) {
			return &store.Photo{ID: id, SpotID: 7, UserID: 99}, nil
		}

		req := httptestRequest(t, http.MethodDelete, "/v1/photos/3", "")
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("should return 404 for an unknown photo", func(t *testing.T) {
		photos.GetByIDFunc = nil

		req := httptestRequest(t, http.MethodDelete, "/v1/photos/999", "")
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}
