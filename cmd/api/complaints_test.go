package main

import (
	"context"
	"net/http"
	"testing"

	"mangal/internal/mailer"
	"mangal/internal/store"
)

func TestCreateSpotComplaint(t *testing.T) {
	storage := newMockStorage()
	app := newTestApplication(t, storage)
	app.config.mail.moderationEmail = "moderation@example.com"
	mux := app.mount()

	complaints := storage.Complaints.(*mockComplaintsStore)
	mail := app.mailer.(*mockMailer)

	t.Run("should file a complaint and notify moderation", func(t *testing.T) {
		var created *store.Complaint
		complaints.CreateFunc = func(ctx context.Context, complaint *store.Complaint) error {
			complaint.ID = 1
			created = complaint
			return nil
		}

		var sentTemplate, sentEmail string
		mail.SendFunc = func(templateFile, username, email string, data any) (int, error) {
			sentTemplate = templateFile
			sentEmail = email
			return 200, nil
		}

		req := httptestRequest(t, http.MethodPost, "/v1/spots/7/complaints", `{"reason":"permanently closed"}`)
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusCreated, rr.Code)

		if created == nil || created.SpotID != 7 || created.UserID != 1 || created.Reason != "permanently closed" {
			t.Errorf("created = %+v", created)
		}
		if sentTemplate != mailer.ComplaintReportedTemplate {
			t.Errorf("template = %q", sentTemplate)
		}
		if sentEmail != "moderation@example.com" {
			t.Errorf("email = %q", sentEmail)
		}
	})

	t.Run("should reject a second report from the same user", func(t *testing.T) {
		complaints.CreateFunc = func(ctx context.Context, complaint *store.Complaint) error {
			return store.ErrConflict
		}

		req := httptestRequest(t, http.MethodPost, "/v1/spots/7/complaints", `{"reason":"duplicate"}`)
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusConflict, rr.Code)
	})

	t.Run("should require a reason", func(t *testing.T) {
		req := httptestRequest(t, http.MethodPost, "/v1/spots/7/complaints", `{"reason":""}`)
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should return 404 for an unknown spot", func(t *testing.T) {
		spots := storage.Spots.(*mockSpotsStore)
		spots.GetByIDFunc = func(ctx context.Context, id int64) (*store.Spot, error) {
			return nil, store.ErrNotFound
		}
		defer func() { spots.GetByIDFunc = nil }()

		req := httptestRequest(t, http.MethodPost, "/v1/spots/999/complaints", `{"reason":"gone"}`)
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should still answer 201 when the mail fails", func(t *testing.T) {
		complaints.CreateFunc = nil
		mail.SendFunc = func(templateFile, username, email string, data any) (int, error) {
			return 0, context.DeadlineExceeded
		}
		defer func() { mail.SendFunc = nil }()

		req := httptestRequest(t, http.MethodPost, "/v1/spots/7/complaints", `{"reason":"valid reason"}`)
		req.Header.Set("Authorization", "Bearer token")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusCreated, rr.Code)
	})
}
