package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"mangal/internal/store"

	"github.com/go-chi/chi/v5"
)

// AddSpotPhotos godoc
//
//	@Summary		Append photos to a spot
//	@Description	Owner-only. Uploads additional photos, subject to the per-photo constraints and the 10-photo total cap. Existing photos are untouched.
//	@Tags			spots
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			spotID	path		int		true	"Spot ID"
//	@Param			photos	formData	[]file	true	"Photos to append"
//	@Success		201		{array}		store.Photo
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID}/photos [post]
func (app *application) addSpotPhotosHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid spot ID"))
		return
	}

	if !app.requireSpotOwner(w, r, spotID) {
		return
	}

	const maxBytes = 64 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		app.badRequestResponse(w, r, errors.New("no photos supplied"))
		return
	}

	if err := validatePhotos(files); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	urls, err := app.photos.Upload(r.Context(), files)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	photos, err := app.store.Photos.Add(r.Context(), spotID, user.ID, urls)
	if err != nil {
		// Roll the uploaded assets back; the store wrote nothing.
		for _, url := range urls {
			if cleanupErr := app.photos.Delete(r.Context(), url); cleanupErr != nil {
				app.logger.Warnw("failed to clean up photo asset", "url", url, "error", cleanupErr)
			}
		}

		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("spot not found"))
		case errors.Is(err, store.ErrTooManyPhotos):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, photos); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeletePhoto godoc
//
//	@Summary		Delete a photo
//	@Description	Only the uploader may delete a photo. The stored asset is destroyed as well.
//	@Tags			photos
//	@Produce		json
//	@Param			photoID	path		int	true	"Photo ID"
//	@Success		200		{object}	map[string]string
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/photos/{photoID} [delete]
func (app *application) deletePhotoHandler(w http.ResponseWriter, r *http.Request) {
	photoID, err := strconv.ParseInt(chi.URLParam(r, "photoID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid photo ID"))
		return
	}

	photo, err := app.store.Photos.GetByID(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("photo not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	user := getUserFromContext(r)
	if photo.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Photos.Delete(r.Context(), photoID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("photo not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.photos.Delete(r.Context(), photo.URL); err != nil {
		app.logger.Warnw("failed to delete photo asset", "photo_id", photoID, "url", photo.URL, "error", err)
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "photo deleted"})
}
