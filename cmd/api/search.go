package main

import (
	"errors"
	"net/http"
	"strconv"

	"mangal/internal/geocode"
	"mangal/internal/params"
	"mangal/internal/store"
)

const defaultSearchRadiusKm = 10

type searchResponse struct {
	Location *geocode.Place      `json:"location"`
	Spots    []store.SpotSummary `json:"spots"`
}

// SearchSpots godoc
//
//	@Summary		Search spots near a named place
//	@Description	Geocodes the location and lists spots within the radius (default 10 km). Amenity flags and min_rating narrow the result like the plain list.
//	@Tags			spots
//	@Produce		json
//	@Param			location	query		string	true	"Free-text place name"
//	@Param			radius		query		number	false	"Radius in km, 5-30"	default(10)
//	@Success		200			{object}	searchResponse
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error	"No geocoding match"
//	@Failure		503			{object}	error	"Geocoding service unavailable"
//	@Router			/search [get]
func (app *application) searchSpotsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	location := q.Get("location")
	if location == "" {
		app.badRequestResponse(w, r, errors.New("location is required"))
		return
	}

	radius := float64(defaultSearchRadiusKm)
	if radiusStr := q.Get("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid radius value: "+strconv.Quote(radiusStr)))
			return
		}
		radius = parsed
	}
	if err := store.ValidateRadius(radius); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	place, err := app.geocoder.Resolve(r.Context(), location)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			app.notFoundResponse(w, r, geocode.ErrNotFound)
		case errors.Is(err, geocode.ErrUnavailable):
			app.serviceUnavailableResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// The resolved point and the amenity/min_rating parameters feed the
	// same filter path as a direct coordinate query.
	filter, err := store.ParseSpotFilter(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	filter.Lat = &place.Latitude
	filter.Lon = &place.Longitude
	filter.RadiusKm = &radius

	spots, err := app.store.Spots.List(r.Context(), filter, params.ParsePagination(q))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := searchResponse{
		Location: place,
		Spots:    spots,
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
