package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindListings_ClampsPagination(t *testing.T) {
	repo := newFakeListingRepo(approved(1, "48.85", "2.35"), approved(2, "45.76", "4.83"))
	uc := NewFindListingsUseCase(repo)

	res, err := uc.Execute(context.Background(), port.ListingQuery{Limit: 0, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, res.ItemsPerPage)
	assert.Equal(t, 1, res.CurrentPage)
	assert.Equal(t, 2, res.TotalCount)
	assert.Len(t, res.Listings, 2)

	_, err = uc.Execute(context.Background(), port.ListingQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, repo.queries[len(repo.queries)-1].Limit)
}

func TestFindListings_FiltersAndBounds(t *testing.T) {
	repo := newFakeListingRepo(
		approved(1, "48.85", "2.35", "AOC"),
		approved(2, "45.76", "4.83", "Label AB"),
		approved(3, "abc", "2.35", "AOC"),
	)
	uc := NewFindListingsUseCase(repo)
	bounds := &domain.MapBounds{NorthEast: domain.LatLng{Lat: 50, Lng: 5}, SouthWest: domain.LatLng{Lat: 47, Lng: 0}}

	res, err := uc.Execute(context.Background(), port.ListingQuery{
		Filters: domain.NewFilterState().With(domain.CategoryCertifications, "AOC"),
		Bounds:  bounds,
		Limit:   20,
	})
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, int64(1), res.Listings[0].ID)
}

func TestFindListings_RepositoryError(t *testing.T) {
	repo := newFakeListingRepo()
	repo.fetchErr = errors.New("connection refused")

	_, err := NewFindListingsUseCase(repo).Execute(context.Background(), port.ListingQuery{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestGetListing_HidesUnpublished(t *testing.T) {
	pending := approved(2, "1", "1")
	pending.Status = domain.ListingStatusPending
	pending.Active = false
	repo := newFakeListingRepo(approved(1, "1", "1"), pending)
	uc := NewGetListingUseCase(repo)

	l, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.ID)

	_, err = uc.Execute(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	_, err = uc.Execute(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestGetListingClusters(t *testing.T) {
	repo := newFakeListingRepo(
		approved(1, "48.8566", "2.3522"),
		approved(2, "48.8570", "2.3530"),
		approved(3, "43.2965", "5.3698"),
	)
	clusters, err := NewGetListingClustersUseCase(repo).Execute(context.Background(), domain.NewFilterState(), nil, 3)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	assert.Equal(t, 3, total)
}

func TestGetFilterOptions_FrenchCollation(t *testing.T) {
	repo := newFakeListingRepo()
	repo.values[domain.CategoryProductType] = []string{"œufs", "Fromages", "épicerie", "abricots"}
	repo.values[domain.CategoryCertifications] = []string{"Label AB", "AOC"}

	options, err := NewGetFilterOptionsUseCase(repo).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"abricots", "épicerie", "Fromages", "œufs"}, options[domain.CategoryProductType])
	assert.Equal(t, []string{"AOC", "Label AB"}, options[domain.CategoryCertifications])
	assert.Len(t, options, len(domain.AllFilterCategories))
}
