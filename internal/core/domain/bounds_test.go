package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var franceBounds = &MapBounds{
	NorthEast: LatLng{Lat: 51, Lng: 9},
	SouthWest: LatLng{Lat: 41, Lng: -5},
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		bounds  *MapBounds
		want    bool
	}{
		{"nil bounds pass everything", Listing{Lat: "garbage", Lng: ""}, nil, true},
		{"inside", Listing{Lat: "46.2", Lng: "2.2"}, franceBounds, true},
		{"outside", Listing{Lat: "60.0", Lng: "10.0"}, franceBounds, false},
		{"edge is inclusive", Listing{Lat: "51", Lng: "-5"}, franceBounds, true},
		{"non numeric lat", Listing{Lat: "quarante-six", Lng: "2.2"}, franceBounds, false},
		{"empty lng", Listing{Lat: "46.2", Lng: ""}, franceBounds, false},
		{"NaN rejected", Listing{Lat: "NaN", Lng: "2.2"}, franceBounds, false},
		{"whitespace tolerated", Listing{Lat: " 46.2 ", Lng: "2.2"}, franceBounds, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InBounds(tt.listing, tt.bounds))
		})
	}
}

func TestVisibleListings(t *testing.T) {
	listings := []Listing{
		{ID: 1, Lat: "46.2", Lng: "2.2"},
		{ID: 2, Lat: "60.0", Lng: "10.0"},
		{ID: 3, Lat: "x", Lng: "y"},
	}
	assert.Equal(t, listings, VisibleListings(listings, nil))

	got := VisibleListings(listings, franceBounds)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}
