package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"mangal/internal/params"
	"mangal/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateSpotPayload struct {
	Name        string          `json:"name" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=2000"`
	Location    []float64       `json:"location" validate:"required,len=2"` // [longitude, latitude]
	Amenities   store.Amenities `json:"amenities"`
}

// CreateSpot godoc
//
//	@Summary		Create a kebab spot
//	@Description	Creates a spot owned by the authenticated user, with up to 10 photo attachments. Photos are validated before anything is written.
//	@Tags			spots
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			spot	formData	string		true	"Spot details (JSON string)"
//	@Param			photos	formData	[]file		false	"Photos (up to 10 files, 5 MiB each)"
//	@Success		201		{object}	store.Spot	"Spot created"
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots [post]
func (app *application) createSpotHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateSpotPayload

	files, err := app.parseSpotForm(w, r, &payload)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lon, lat := payload.Location[0], payload.Location[1]
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		app.badRequestResponse(w, r, fmt.Errorf("coordinates out of range: %g, %g", lat, lon))
		return
	}

	// All photos must pass validation before any row is written or any
	// asset uploaded; a bad file aborts the whole create.
	if err := validatePhotos(files); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	photoURLs, err := app.photos.Upload(r.Context(), files)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// The owner is always the authenticated caller.
	spot := &store.Spot{
		UserID:      user.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Latitude:    lat,
		Longitude:   lon,
		Amenities:   payload.Amenities,
	}

	if err := app.store.Spots.Create(r.Context(), spot, photoURLs); err != nil {
		// Nothing was committed; reclaim the uploaded assets.
		for _, url := range photoURLs {
			if cleanupErr := app.photos.Delete(r.Context(), url); cleanupErr != nil {
				app.logger.Warnw("failed to clean up photo asset", "url", url, "error", cleanupErr)
			}
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, spot); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /spots?lat=48.5&lon=32.2&radius=10&toilet=true&min_rating=4.0

// ListSpots godoc
//
//	@Summary		List spots within a radius
//	@Description	Radius queries require lat, lon and a radius between 5 and 30 km. Without a center the result is empty. Amenity flags set to "true" and min_rating narrow the result.
//	@Tags			spots
//	@Produce		json
//	@Param			lat			query	number	false	"Latitude of the search center"
//	@Param			lon			query	number	false	"Longitude of the search center"
//	@Param			radius		query	number	false	"Radius in km, 5-30"
//	@Param			min_rating	query	number	false	"Minimum average rating"
//	@Param			page		query	int		false	"Page number"		default(1)
//	@Param			limit		query	int		false	"Items per page"	default(20)
//	@Success		200			{array}	store.SpotSummary
//	@Failure		400			{object}	error
//	@Router			/spots [get]
func (app *application) listSpotsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := store.ParseSpotFilter(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	spots, err := app.store.Spots.List(r.Context(), filter, params.ParsePagination(q))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, spots); err != nil {
		app.internalServerError(w, r, err)
	}
}

// spotDetailResponse is the full spot plus caller-specific extras.
type spotDetailResponse struct {
	*store.Spot
	ShareCode  string `json:"share_code,omitempty"`
	UserRating *int   `json:"user_rating,omitempty"`
}

// GetSpot godoc
//
//	@Summary		Get a spot with photos
//	@Description	Returns the full attribute set. With a valid bearer token the response also carries the caller's own rating.
//	@Tags			spots
//	@Produce		json
//	@Param			spotID	path		int	true	"Spot ID"
//	@Success		200		{object}	spotDetailResponse
//	@Failure		404		{object}	error
//	@Router			/spots/{spotID} [get]
func (app *application) getSpotHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid spot ID"))
		return
	}

	app.renderSpotDetail(w, r, spotID)
}

// GetSpotByShareCode godoc
//
//	@Summary		Resolve a share code to a spot
//	@Tags			spots
//	@Produce		json
//	@Param			code	path		string	true	"Share code"
//	@Success		200		{object}	spotDetailResponse
//	@Failure		404		{object}	error
//	@Router			/spots/share/{code} [get]
func (app *application) getSpotByShareCodeHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := app.shareCodes.Decode(chi.URLParam(r, "code"))
	if err != nil {
		app.notFoundResponse(w, r, errors.New("spot not found"))
		return
	}

	app.renderSpotDetail(w, r, spotID)
}

func (app *application) renderSpotDetail(w http.ResponseWriter, r *http.Request, spotID int64) {
	spot, err := app.store.Spots.GetByID(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("spot not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	spot.Photos, err = app.store.Photos.ListForSpot(r.Context(), spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := spotDetailResponse{Spot: spot}

	if code, err := app.shareCodes.Encode(spotID); err == nil {
		resp.ShareCode = code
	}

	if user := getUserFromContext(r); user != nil {
		value, err := app.store.Ratings.GetUserRating(r.Context(), spotID, user.ID)
		switch {
		case err == nil:
			resp.UserRating = &value
		case !errors.Is(err, store.ErrNotFound):
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateSpot godoc
//
//	@Summary		Update a spot
//	@Description	Owner-only partial update of name, description, location, amenities or the hidden flag.
//	@Tags			spots
//	@Accept			json
//	@Produce		json
//	@Param			spotID		path		int						true	"Spot ID"
//	@Param			updateData	body		map[string]interface{}	true	"Fields to update"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	error
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID} [patch]
func (app *application) updateSpotHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid spot ID"))
		return
	}

	if !app.requireSpotOwner(w, r, spotID) {
		return
	}

	var updateData map[string]interface{}
	if err := readJSON(w, r, &updateData); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Spots.Update(r.Context(), spotID, updateData); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("spot not found"))
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "spot updated"})
}

// DeleteSpot godoc
//
//	@Summary		Delete a spot
//	@Description	Owner-only. Ratings, photos and complaints cascade; stored photo assets are destroyed best-effort.
//	@Tags			spots
//	@Produce		json
//	@Param			spotID	path		int	true	"Spot ID"
//	@Success		200		{object}	map[string]string
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID} [delete]
func (app *application) deleteSpotHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid spot ID"))
		return
	}

	if !app.requireSpotOwner(w, r, spotID) {
		return
	}

	photos, err := app.store.Photos.ListForSpot(r.Context(), spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Spots.Delete(r.Context(), spotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("spot not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// The rows are gone; asset cleanup failures only cost blob storage.
	for _, photo := range photos {
		if err := app.photos.Delete(r.Context(), photo.URL); err != nil {
			app.logger.Warnw("failed to delete photo asset", "spot_id", spotID, "url", photo.URL, "error", err)
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "spot deleted"})
}

// requireSpotOwner writes the error response and returns false unless the
// caller owns the spot.
func (app *application) requireSpotOwner(w http.ResponseWriter, r *http.Request, spotID int64) bool {
	user := getUserFromContext(r)

	isOwner, err := app.store.Spots.IsOwner(r.Context(), spotID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("spot not found"))
			return false
		}
		app.internalServerError(w, r, err)
		return false
	}
	if !isOwner {
		app.forbiddenResponse(w, r)
		return false
	}
	return true
}
