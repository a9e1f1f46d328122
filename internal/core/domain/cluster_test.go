package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterListings(t *testing.T) {
	listings := []Listing{
		{ID: 1, Lat: "48.8566", Lng: "2.3522"}, // Paris
		{ID: 2, Lat: "48.8570", Lng: "2.3530"}, // Paris, same cell
		{ID: 3, Lat: "43.2965", Lng: "5.3698"}, // Marseille
		{ID: 4, Lat: "n/a", Lng: "2.0"},
	}

	clusters := ClusterListings(listings, 4)
	require.Len(t, clusters, 2)

	total := 0
	for _, c := range clusters {
		assert.Len(t, c.Geohash, 4)
		total += c.Count
	}
	assert.Equal(t, 3, total)

	for _, c := range clusters {
		if c.Count == 2 {
			assert.ElementsMatch(t, []int64{1, 2}, c.ListingIDs)
			assert.InDelta(t, 48.8, c.Center.Lat, 0.2)
		}
	}
}

func TestListingGeohash(t *testing.T) {
	assert.Equal(t, "", ListingGeohash(Listing{Lat: "", Lng: "2"}, ListingGeohashPrecision))
	hash := ListingGeohash(Listing{Lat: "48.8566", Lng: "2.3522"}, ListingGeohashPrecision)
	assert.Len(t, hash, int(ListingGeohashPrecision))
	assert.Equal(t, "u09tv", hash[:5])
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, 0.0, Summarize(nil).AverageRating)
	s := Summarize([]Review{{Rating: 5}, {Rating: 4}, {Rating: 3}})
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 4.0, s.AverageRating, 1e-9)
}
