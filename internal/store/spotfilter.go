package store

import (
	"fmt"
	"net/url"
	"strconv"
)

// Radius bounds for location queries, in kilometers.
const (
	MinRadiusKm = 5
	MaxRadiusKm = 30
)

// SpotFilter holds the parsed constraints of a spot query: an optional
// center + radius, amenity flags that must be true, and a minimum average
// rating. The same filter serves the plain list endpoint and the geocoded
// search endpoint.
type SpotFilter struct {
	Lat       *float64
	Lon       *float64
	RadiusKm  *float64
	Amenities []string
	MinRating *float64
}

func (f SpotFilter) HasCenter() bool {
	return f.Lat != nil && f.Lon != nil && f.RadiusKm != nil
}

// ValidateRadius checks the [MinRadiusKm, MaxRadiusKm] bound.
func ValidateRadius(km float64) error {
	if km < MinRadiusKm || km > MaxRadiusKm {
		return fmt.Errorf("radius must be between %d and %d km", MinRadiusKm, MaxRadiusKm)
	}
	return nil
}

// ParseSpotFilter extracts query constraints from URL parameters.
//
// lat, lon and radius are parsed strictly: a malformed value or a radius
// outside the allowed bounds is an error, never a silent fallback. When lat
// and lon are both absent the filter simply has no center. Amenity
// parameters constrain a column only when set to the literal "true", and an
// unparsable min_rating is ignored on purpose (best-effort filtering).
func ParseSpotFilter(q url.Values) (SpotFilter, error) {
	var filter SpotFilter

	latStr := q.Get("lat")
	lonStr := q.Get("lon")

	if (latStr == "") != (lonStr == "") {
		return filter, fmt.Errorf("lat and lon must be supplied together")
	}

	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid lat value: %q", latStr)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid lon value: %q", lonStr)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return filter, fmt.Errorf("coordinates out of range: %g, %g", lat, lon)
		}

		radiusStr := q.Get("radius")
		if radiusStr == "" {
			return filter, fmt.Errorf("radius is required for a location query")
		}
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid radius value: %q", radiusStr)
		}
		if err := ValidateRadius(radius); err != nil {
			return filter, err
		}

		filter.Lat = &lat
		filter.Lon = &lon
		filter.RadiusKm = &radius
	}

	for _, amenity := range AmenityColumns {
		if q.Get(amenity) == "true" {
			filter.Amenities = append(filter.Amenities, amenity)
		}
	}

	if minRatingStr := q.Get("min_rating"); minRatingStr != "" {
		if minRating, err := strconv.ParseFloat(minRatingStr, 64); err == nil {
			filter.MinRating = &minRating
		}
	}

	return filter, nil
}
