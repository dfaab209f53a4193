package params

import (
	"net/url"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", 20, 0},
		{"limit=10", 10, 0},
		{"limit=10&page=3", 10, 20},
		{"limit=500", 50, 0},
		{"limit=-1", 20, 0},
		{"limit=abc&page=xyz", 20, 0},
		{"page=0", 20, 0},
	}

	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		p := ParsePagination(q)
		if p.Limit != tt.limit || p.Offset != tt.offset {
			t.Errorf("ParsePagination(%q) = limit %d offset %d, want %d/%d",
				tt.query, p.Limit, p.Offset, tt.limit, tt.offset)
		}
	}
}
