package main

import (
	"errors"
	"net/http"
	"strconv"

	"mangal/internal/mailer"
	"mangal/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateComplaintPayload struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// ReportSpot godoc
//
//	@Summary		Report a spot
//	@Description	Files a complaint against a spot. Each user may report a given spot once.
//	@Tags			spots
//	@Accept			json
//	@Produce		json
//	@Param			spotID	path		int						true	"Spot ID"
//	@Param			payload	body		CreateComplaintPayload	true	"Complaint reason"
//	@Success		201		{object}	store.Complaint
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		409		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID}/complaints [post]
func (app *application) createSpotComplaintHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid spot ID"))
		return
	}

	var payload CreateComplaintPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	spot, err := app.store.Spots.GetByID(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("spot not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	user := getUserFromContext(r)

	complaint := &store.Complaint{
		SpotID: spotID,
		UserID: user.ID,
		Reason: payload.Reason,
	}

	if err := app.store.Complaints.Create(r.Context(), complaint); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, errors.New("you have already reported this spot"))
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("spot not found"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if app.config.mail.moderationEmail != "" {
		vars := struct {
			SpotID     int64
			SpotName   string
			ReporterID int64
			Reason     string
		}{
			SpotID:     spot.ID,
			SpotName:   spot.Name,
			ReporterID: user.ID,
			Reason:     complaint.Reason,
		}

		status, err := app.mailer.Send(mailer.ComplaintReportedTemplate, "moderation", app.config.mail.moderationEmail, vars)
		if err != nil {
			app.logger.Warnw("failed to send complaint report email", "spot_id", spotID, "error", err)
		} else {
			app.logger.Infow("complaint report email sent", "spot_id", spotID, "status_code", status)
		}
	}

	if err := app.jsonResponse(w, http.StatusCreated, complaint); err != nil {
		app.internalServerError(w, r, err)
	}
}
