package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"mangal/internal/geocode"
	"mangal/internal/params"
	"mangal/internal/store"
)

func TestSearchSpots(t *testing.T) {
	storage := newMockStorage()
	app := newTestApplication(t, storage)
	mux := app.mount()

	spots := storage.Spots.(*mockSpotsStore)
	geo := app.geocoder.(*mockGeocoder)

	t.Run("should list spots around the resolved location", func(t *testing.T) {
		geo.ResolveFunc = func(ctx context.Context, name string) (*geocode.Place, error) {
			if name != "Kreuzberg" {
				t.Errorf("resolved %q", name)
			}
			return &geocode.Place{Name: "Kreuzberg, Berlin", Latitude: 52.497, Longitude: 13.42}, nil
		}

		var gotFilter store.SpotFilter
		spots.ListFunc = func(ctx context.Context, filter store.SpotFilter, p params.Pagination) ([]store.SpotSummary, error) {
			gotFilter = filter
			return []store.SpotSummary{{ID: 3, Name: "Adana Grillhaus"}}, nil
		}

		req := httptestRequest(t, http.MethodGet, "/v1/search?location=Kreuzberg&fishing=true", "")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		if !gotFilter.HasCenter() {
			t.Fatal("filter has no center")
		}
		if *gotFilter.Lat != 52.497 || *gotFilter.Lon != 13.42 {
			t.Errorf("center = %g, %g", *gotFilter.Lat, *gotFilter.Lon)
		}
		if *gotFilter.RadiusKm != defaultSearchRadiusKm {
			t.Errorf("radius = %g, want the default", *gotFilter.RadiusKm)
		}
		if len(gotFilter.Amenities) != 1 || gotFilter.Amenities[0] != "fishing" {
			t.Errorf("amenities = %v", gotFilter.Amenities)
		}

		var resp struct {
			Data searchResponse `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Data.Location == nil || resp.Data.Location.Name != "Kreuzberg, Berlin" {
			t.Errorf("location = %+v", resp.Data.Location)
		}
		if len(resp.Data.Spots) != 1 {
			t.Errorf("got %d spots", len(resp.Data.Spots))
		}
	})

	t.Run("should require a location", func(t *testing.T) {
		req := httptestRequest(t, http.MethodGet, "/v1/search", "")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should validate an explicit radius", func(t *testing.T) {
		for _, radius := range []string{"1", "100", "near"} {
			req := httptestRequest(t, http.MethodGet, "/v1/search?location=Berlin&radius="+radius, "")

			rr := executeRequest(req, mux)
			checkResponseCode(t, http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("should return 404 when the location is unknown", func(t *testing.T) {
		geo.ResolveFunc = func(ctx context.Context, name string) (*geocode.Place, error) {
			return nil, geocode.ErrNotFound
		}

		req := httptestRequest(t, http.MethodGet, "/v1/search?location=nowhereville", "")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should return 503 when geocoding is down", func(t *testing.T) {
		geo.ResolveFunc = func(ctx context.Context, name string) (*geocode.Place, error) {
			return nil, geocode.ErrUnavailable
		}

		req := httptestRequest(t, http.MethodGet, "/v1/search?location=Berlin", "")

		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusServiceUnavailable, rr.Code)
	})
}
