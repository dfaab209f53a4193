package main

import (
	"errors"
	"net/http"
	"strconv"

	"mangal/internal/store"

	"github.com/go-chi/chi/v5"
)

type rateSpotPayload struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

type rateSpotResponse struct {
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
	Value         int     `json:"value"`
}

// RateSpot godoc
//
//	@Summary		Rate a spot
//	@Description	Creates or overwrites the caller's rating and returns the recomputed aggregate.
//	@Tags			spots
//	@Accept			json
//	@Produce		json
//	@Param			spotID	path		int				true	"Spot ID"
//	@Param			payload	body		rateSpotPayload	true	"Rating value, 1-5"
//	@Success		200		{object}	rateSpotResponse
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID}/rate [post]
func (app *application) rateSpotHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid spot ID"))
		return
	}

	var payload rateSpotPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, store.ErrInvalidRating)
		return
	}

	user := getUserFromContext(r)

	avg, count, err := app.store.Ratings.Rate(r.Context(), spotID, user.ID, payload.Value)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidRating):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("spot not found"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	resp := rateSpotResponse{
		AverageRating: avg,
		RatingsCount:  count,
		Value:         payload.Value,
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
