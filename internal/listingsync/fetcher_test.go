package listingsync

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_AppendedPagesAccumulateUpToTotal(t *testing.T) {
	for _, total := range []int{0, 15, 20, 45, 60} {
		source := newMemorySource(total)
		store := NewStore(nil, nil)
		fetcher := NewFetcher(source, store)

		for n := 1; n <= 4; n++ {
			_, err := fetcher.Fetch(context.Background(), FetchRequest{Page: n, Append: n > 1})
			require.NoError(t, err)

			want := n * PageSize
			if want > total {
				want = total
			}
			assert.Len(t, store.Snapshot().Listings.All, want, "total=%d after %d fetches", total, n)
		}
	}
}

func TestFetch_ShortCircuitsBeyondKnownTotal(t *testing.T) {
	source := newMemorySource(15)
	store := NewStore(nil, nil)
	fetcher := NewFetcher(source, store)

	first, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first, 15)
	assert.False(t, store.Snapshot().Listings.HasMore)
	require.Equal(t, 1, source.callCount())

	second, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 2, Append: true})
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.NotNil(t, second)
	assert.False(t, store.Snapshot().Listings.HasMore)
	assert.Equal(t, 1, source.callCount(), "no remote call beyond the known total")
	assert.Len(t, store.Snapshot().Listings.All, 15)
}

func TestFetch_HasMore(t *testing.T) {
	source := newMemorySource(45)
	store := NewStore(nil, nil)
	fetcher := NewFetcher(source, store)

	_, err := fetcher.Refresh(context.Background())
	require.NoError(t, err)
	st := store.Snapshot().Listings
	assert.True(t, st.HasMore)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 45, st.TotalCount)

	_, err = fetcher.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, store.Snapshot().Listings.HasMore)

	last, err := fetcher.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, last, 5)
	assert.False(t, store.Snapshot().Listings.HasMore)

	// после последней страницы LoadMore ничего не запрашивает
	calls := source.callCount()
	more, err := fetcher.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, more)
	assert.Equal(t, calls, source.callCount())
}

func TestFetch_PassesFiltersAndBounds(t *testing.T) {
	source := newMemorySource(3)
	store := NewStore(nil, nil)
	fetcher := NewFetcher(source, store)

	filters := domain.NewFilterState().With(domain.CategoryCertifications, "AOC")
	bounds := &domain.MapBounds{NorthEast: domain.LatLng{Lat: 51, Lng: 9}, SouthWest: domain.LatLng{Lat: 41, Lng: -5}}
	_, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 3, Filters: filters, Bounds: bounds})
	require.NoError(t, err)

	require.Len(t, source.calls, 1)
	q := source.calls[0]
	assert.Equal(t, 40, q.Offset)
	assert.Equal(t, PageSize, q.Limit)
	assert.True(t, q.Filters.Equal(filters))
	assert.Equal(t, bounds, q.Bounds)
}

func TestFetch_RemoteErrorStopsPaging(t *testing.T) {
	store := NewStore(nil, nil)
	fetcher := NewFetcher(newMemorySource(45), store)
	_, err := fetcher.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, store.Snapshot().Listings.HasMore)

	failing := NewFetcher(sourceFunc(func(ctx context.Context, q port.ListingQuery) (*port.ListingPage, error) {
		return nil, errors.New("connection reset")
	}), store)

	got, err := failing.LoadMore(context.Background())
	require.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	st := store.Snapshot().Listings
	assert.False(t, st.HasMore)
	assert.False(t, st.Loading)
	assert.Len(t, st.All, PageSize, "loaded listings are kept")
}

func TestFetch_InvalidPage(t *testing.T) {
	fetcher := NewFetcher(newMemorySource(1), NewStore(nil, nil))
	_, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetch_StaleResponseIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	var calls int
	source := sourceFunc(func(ctx context.Context, q port.ListingQuery) (*port.ListingPage, error) {
		calls++
		if calls == 1 {
			close(started)
			<-ctx.Done()
			return &port.ListingPage{Listings: []domain.Listing{{ID: 999}}, TotalCount: 1}, nil
		}
		return &port.ListingPage{Listings: []domain.Listing{{ID: 1}, {ID: 2}}, TotalCount: 2}, nil
	})

	store := NewStore(nil, nil)
	fetcher := NewFetcher(source, store)

	type result struct {
		listings []domain.Listing
		err      error
	}
	done := make(chan result, 1)
	go func() {
		l, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 1})
		done <- result{l, err}
	}()
	<-started

	latest, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 1})
	require.NoError(t, err)
	assert.Len(t, latest, 2)

	stale := <-done
	assert.ErrorIs(t, stale.err, ErrStaleResponse)
	assert.Nil(t, stale.listings)

	st := store.Snapshot().Listings
	require.Len(t, st.All, 2)
	assert.Equal(t, int64(1), st.All[0].ID)
	assert.False(t, st.Loading)
}

func TestFetch_ShortCircuitKeepsInFlightRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	source := sourceFunc(func(ctx context.Context, q port.ListingQuery) (*port.ListingPage, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			return &port.ListingPage{Listings: []domain.Listing{{ID: 1}}, TotalCount: 15}, nil
		}
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &port.ListingPage{Listings: []domain.Listing{{ID: 7}, {ID: 8}}, TotalCount: 2}, nil
	})

	store := NewStore(nil, nil)
	fetcher := NewFetcher(source, store)

	_, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 1})
	require.NoError(t, err)
	store.SetFilters(domain.NewFilterState().With(domain.CategoryCertifications, "AOC"))

	type result struct {
		listings []domain.Listing
		err      error
	}
	done := make(chan result, 1)
	go func() {
		l, err := fetcher.Refresh(context.Background())
		done <- result{l, err}
	}()
	<-started

	skipped, err := fetcher.Fetch(context.Background(), FetchRequest{Page: 2, Append: true})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.True(t, store.Snapshot().Listings.Loading, "in-flight refresh still loading")

	close(release)
	refreshed := <-done
	require.NoError(t, refreshed.err)
	assert.Len(t, refreshed.listings, 2)

	st := store.Snapshot().Listings
	require.Len(t, st.All, 2)
	assert.Equal(t, int64(7), st.All[0].ID)
	assert.Equal(t, 2, st.TotalCount)
	assert.False(t, st.Loading)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "short-circuited fetch makes no remote call")
}

func TestFetch_CancelDiscardsInFlight(t *testing.T) {
	started := make(chan struct{})
	source := sourceFunc(func(ctx context.Context, q port.ListingQuery) (*port.ListingPage, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	store := NewStore(nil, nil)
	fetcher := NewFetcher(source, store)

	done := make(chan error, 1)
	go func() {
		_, err := fetcher.Refresh(context.Background())
		done <- err
	}()
	<-started
	fetcher.Cancel()

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.False(t, store.Snapshot().Listings.Loading)
	assert.False(t, store.Snapshot().Listings.TotalKnown)
}
