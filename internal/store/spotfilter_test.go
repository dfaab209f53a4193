package store

import (
	"net/url"
	"testing"
)

func TestParseSpotFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, f SpotFilter)
	}{
		{
			name:  "empty query has no center",
			query: "",
			check: func(t *testing.T, f SpotFilter) {
				if f.HasCenter() {
					t.Error("expected no center")
				}
			},
		},
		{
			name:  "valid center and radius",
			query: "lat=52.52&lon=13.405&radius=10",
			check: func(t *testing.T, f SpotFilter) {
				if !f.HasCenter() {
					t.Fatal("expected a center")
				}
				if *f.Lat != 52.52 || *f.Lon != 13.405 || *f.RadiusKm != 10 {
					t.Errorf("got lat=%g lon=%g radius=%g", *f.Lat, *f.Lon, *f.RadiusKm)
				}
			},
		},
		{
			name:    "lat without lon",
			query:   "lat=52.52",
			wantErr: true,
		},
		{
			name:    "lon without lat",
			query:   "lon=13.405",
			wantErr: true,
		},
		{
			name:    "malformed lat",
			query:   "lat=abc&lon=13.405&radius=10",
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			query:   "lat=91&lon=13.405&radius=10",
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			query:   "lat=52.52&lon=181&radius=10",
			wantErr: true,
		},
		{
			name:    "center without radius",
			query:   "lat=52.52&lon=13.405",
			wantErr: true,
		},
		{
			name:    "radius below minimum",
			query:   "lat=52.52&lon=13.405&radius=4",
			wantErr: true,
		},
		{
			name:    "radius above maximum",
			query:   "lat=52.52&lon=13.405&radius=31",
			wantErr: true,
		},
		{
			name:    "malformed radius",
			query:   "lat=52.52&lon=13.405&radius=far",
			wantErr: true,
		},
		{
			name:  "amenity flags require the literal true",
			query: "near_water=true&tables=yes&fishing=1&fire_pit=true",
			check: func(t *testing.T, f SpotFilter) {
				if len(f.Amenities) != 2 {
					t.Fatalf("got amenities %v, want 2", f.Amenities)
				}
				for _, a := range f.Amenities {
					if a != "near_water" && a != "fire_pit" {
						t.Errorf("unexpected amenity %q", a)
					}
				}
			},
		},
		{
			name:  "unknown amenity params are ignored",
			query: "wifi=true",
			check: func(t *testing.T, f SpotFilter) {
				if len(f.Amenities) != 0 {
					t.Errorf("got amenities %v, want none", f.Amenities)
				}
			},
		},
		{
			name:  "min_rating parsed",
			query: "min_rating=3.5",
			check: func(t *testing.T, f SpotFilter) {
				if f.MinRating == nil || *f.MinRating != 3.5 {
					t.Errorf("got min rating %v, want 3.5", f.MinRating)
				}
			},
		},
		{
			name:  "unparsable min_rating ignored",
			query: "min_rating=lots",
			check: func(t *testing.T, f SpotFilter) {
				if f.MinRating != nil {
					t.Errorf("got min rating %v, want nil", *f.MinRating)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}

			filter, err := ParseSpotFilter(q)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, filter)
			}
		})
	}
}

func TestValidateRadius(t *testing.T) {
	for _, km := range []float64{5, 10, 30} {
		if err := ValidateRadius(km); err != nil {
			t.Errorf("ValidateRadius(%g) = %v, want nil", km, err)
		}
	}
	for _, km := range []float64{0, 4.9, 30.1, -10} {
		if err := ValidateRadius(km); err == nil {
			t.Errorf("ValidateRadius(%g) = nil, want error", km)
		}
	}
}

func TestAmenityFieldsAlignment(t *testing.T) {
	var a Amenities
	if got, want := len(a.fields()), len(AmenityColumns); got != want {
		t.Fatalf("fields() returned %d pointers for %d columns", got, want)
	}

	for _, col := range AmenityColumns {
		if !isAmenityColumn(col) {
			t.Errorf("isAmenityColumn(%q) = false", col)
		}
	}
	if isAmenityColumn("name") {
		t.Error("isAmenityColumn(\"name\") = true")
	}
}
