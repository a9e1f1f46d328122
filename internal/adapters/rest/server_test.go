package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

// токен вида "<user>:<role>"
func (stubVerifier) Verify(ctx context.Context, token string) (*port.Claims, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &port.Claims{UserID: parts[0], Role: parts[1]}, nil
}

type stubFind struct{ got port.ListingQuery }

func (s *stubFind) Execute(ctx context.Context, q port.ListingQuery) (*domain.PaginatedListings, error) {
	s.got = q
	return &domain.PaginatedListings{
		Listings:     []domain.Listing{{ID: 1, Name: "Ferme", Lat: "45", Lng: "4", Certifications: []string{"AOC"}}},
		TotalCount:   21,
		CurrentPage:  q.Offset/q.Limit + 1,
		ItemsPerPage: q.Limit,
	}, nil
}

type stubGet struct{}

func (stubGet) Execute(ctx context.Context, id int64) (*domain.Listing, error) {
	if id != 1 {
		return nil, domain.ErrListingNotFound
	}
	return &domain.Listing{ID: 1, Name: "Ferme"}, nil
}

type stubClusters struct{ precision uint }

func (s *stubClusters) Execute(ctx context.Context, f domain.FilterState, b *domain.MapBounds, precision uint) ([]domain.Cluster, error) {
	s.precision = precision
	return []domain.Cluster{{Geohash: "u09", Count: 2, ListingIDs: []int64{1, 2}}}, nil
}

type stubOptions struct{}

func (stubOptions) Execute(ctx context.Context) (map[domain.FilterCategory][]string, error) {
	return map[domain.FilterCategory][]string{domain.CategoryCertifications: {"AOC", "Label AB"}}, nil
}

type stubProducts struct{}

func (stubProducts) Execute(ctx context.Context, id int64) ([]domain.Product, error) {
	return []domain.Product{{ID: 3, ListingID: id, Name: "Miel", StockStatus: domain.StockInStock}}, nil
}

type stubCreateListing struct{ producer string }

func (s *stubCreateListing) Execute(ctx context.Context, producerID string, d domain.ListingDraft) (*domain.Listing, error) {
	s.producer = producerID
	if d.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	l := domain.Listing{ID: 10, ProducerID: producerID, Status: domain.ListingStatusPending}
	d.Apply(&l)
	return &l, nil
}

type stubUpdateListing struct{}

func (stubUpdateListing) Execute(ctx context.Context, producerID string, id int64, d domain.ListingDraft) (*domain.Listing, error) {
	return nil, domain.ErrForbidden
}

type stubDeactivate struct{}

func (stubDeactivate) Execute(ctx context.Context, producerID string, id int64) error { return nil }

type stubAddProduct struct{}

func (stubAddProduct) Execute(ctx context.Context, producerID string, p domain.Product) (*domain.Product, error) {
	p.ID = 5
	return &p, nil
}

type stubPending struct{}

func (stubPending) Execute(ctx context.Context, limit, offset int) (*domain.PaginatedListings, error) {
	return &domain.PaginatedListings{Listings: []domain.Listing{}, CurrentPage: 1, ItemsPerPage: 20}, nil
}

type stubModerate struct{ reason string }

func (s *stubModerate) Approve(ctx context.Context, id int64) (*domain.Listing, error) {
	return nil, domain.ErrInvalidState
}

func (s *stubModerate) Reject(ctx context.Context, id int64, reason string) (*domain.Listing, error) {
	s.reason = reason
	return &domain.Listing{ID: id, Status: domain.ListingStatusRejected}, nil
}

type stubFavorites struct{ added []int64 }

func (s *stubFavorites) Execute(ctx context.Context, userID string, listingID int64) error {
	s.added = append(s.added, listingID)
	return nil
}

type stubGetFavorites struct{}

func (stubGetFavorites) Execute(ctx context.Context, userID string, limit, offset int) (*domain.PaginatedFavorites, error) {
	return &domain.PaginatedFavorites{Listings: []domain.Listing{{ID: 1}}, TotalCount: 1, CurrentPage: 1, ItemsPerPage: 20}, nil
}

type stubFavoriteIDs struct{}

func (stubFavoriteIDs) Execute(ctx context.Context, userID string) ([]int64, error) {
	return []int64{3, 1}, nil
}

type stubCreateReview struct{}

func (stubCreateReview) Execute(ctx context.Context, r domain.Review) (*domain.Review, error) {
	if r.UserID == "dup" {
		return nil, domain.ErrAlreadyReviewed
	}
	r.ID = 1
	return &r, nil
}

type stubGetReviews struct{}

func (stubGetReviews) Execute(ctx context.Context, id int64) (*domain.ReviewSummary, error) {
	s := domain.Summarize([]domain.Review{{Rating: 4}, {Rating: 5}})
	return &s, nil
}

type testEnv struct {
	router   http.Handler
	find     *stubFind
	clusters *stubClusters
	create   *stubCreateListing
	moderate *stubModerate
	favs     *stubFavorites
}

func newTestEnv() *testEnv {
	env := &testEnv{
		find:     &stubFind{},
		clusters: &stubClusters{},
		create:   &stubCreateListing{},
		moderate: &stubModerate{},
		favs:     &stubFavorites{},
	}
	handlers := Handlers{
		Listings:  NewListingsHandler(env.find, stubGet{}, env.clusters, stubOptions{}, stubProducts{}),
		Producer:  NewProducerHandler(env.create, stubUpdateListing{}, stubDeactivate{}, stubAddProduct{}),
		Admin:     NewAdminHandler(stubPending{}, env.moderate),
		Favorites: NewFavoritesHandler(env.favs, env.favs, stubGetFavorites{}, stubFavoriteIDs{}),
		Reviews:   NewReviewsHandler(stubCreateReview{}, stubGetReviews{}),
	}
	env.router = NewRouter(handlers, NewAuthMiddleware(stubVerifier{}), []string{"http://localhost:3000"}, contextkeys.NoopLogger())
	return env
}

func (env *testEnv) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestFindListings(t *testing.T) {
	env := newTestEnv()
	rec := env.do(http.MethodGet, "/api/v1/listings?page=2&perPage=10&certifications=Label+AB,AOC&ne_lat=49&ne_lng=3&sw_lat=48&sw_lng=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body PaginatedListingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 21, body.Total)
	assert.Equal(t, 2, body.Page)
	assert.True(t, body.HasMore)
	assert.Equal(t, []string{"AOC"}, body.Data[0].Certifications)
	assert.Equal(t, []string{}, body.Data[0].ProductType)

	assert.Equal(t, 10, env.find.got.Offset)
	assert.Equal(t, []string{"Label AB", "AOC"}, env.find.got.Filters.Selected(domain.CategoryCertifications))
	require.NotNil(t, env.find.got.Bounds)
	assert.Equal(t, 49.0, env.find.got.Bounds.NorthEast.Lat)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestFindListings_BadQuery(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/listings?ne_lat=49", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/listings?page=0", "", "").Code)
}

func TestGetListing(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/listings/1", "", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/listings/2", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/listings/abc", "", "").Code)
}

func TestClustersAndOptions(t *testing.T) {
	env := newTestEnv()
	rec := env.do(http.MethodGet, "/api/v1/listings/clusters?precision=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(3), env.clusters.precision)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/listings/clusters?precision=13", "", "").Code)

	rec = env.do(http.MethodGet, "/api/v1/filters/options", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var options map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, []string{"AOC", "Label AB"}, options["certifications"])
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/favorites", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/favorites", "garbage", "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/v1/admin/listings/pending", "u1:user", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/admin/listings/pending", "a1:admin", "").Code)
}

func TestProducerRoutes(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/producer/listings", "p1:producer", `{"name":"Ferme","address":"x","lat":"45","lng":"4","certifications":["AOC"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "p1", env.create.producer)
	assert.Equal(t, "/api/v1/producer/listings/10", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/v1/producer/listings", "p1:producer", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/v1/producer/listings", "p1:producer", `{"unknown":1}`).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPut, "/api/v1/producer/listings/1", "p2:producer", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/v1/producer/listings/1", "p1:producer", "").Code)
	assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/producer/listings/1/products", "p1:producer", `{"name":"Miel","price_cents":700}`).Code)
}

func TestAdminModeration(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/v1/admin/listings/1/approve", "a:admin", "").Code)

	rec := env.do(http.MethodPost, "/api/v1/admin/listings/1/reject", "a:admin", `{"reason":"doublon"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doublon", env.moderate.reason)

	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/admin/listings/1/reject", "a:admin", "").Code)
}

func TestFavoritesRoutes(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/favorites", "u:user", `{"listing_id":7}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/v1/favorites", "u:user", `{"listing_id":0}`).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/v1/favorites/7", "u:user", "").Code)
	assert.Equal(t, []int64{7, 7}, env.favs.added)

	rec := env.do(http.MethodGet, "/api/v1/favorites/ids", "u:user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[3,1]`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/favorites", "u:user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page PaginatedFavoritesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
}

func TestReviewsRoutes(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/listings/1/reviews", "u:user", `{"rating":5}`).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/v1/listings/1/reviews", "dup:user", `{"rating":5}`).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/v1/listings/1/reviews", "", `{"rating":5}`).Code)

	rec := env.do(http.MethodGet, "/api/v1/listings/1/reviews", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body ReviewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 4.5, body.AverageRating, 1e-9)
	assert.Equal(t, 2, body.Count)
}

func TestListingQueryRoundTrip(t *testing.T) {
	q := port.ListingQuery{
		Filters: domain.NewFilterState().With(domain.CategoryPurchaseMode, "vente directe", "AMAP"),
		Bounds:  &domain.MapBounds{NorthEast: domain.LatLng{Lat: 48.9, Lng: 2.5}, SouthWest: domain.LatLng{Lat: 48.8, Lng: 2.2}},
		Offset:  40,
		Limit:   20,
	}
	parsed, err := ParseListingQuery(EncodeListingQuery(q))
	require.NoError(t, err)
	assert.Equal(t, q.Offset, parsed.Offset)
	assert.Equal(t, q.Limit, parsed.Limit)
	assert.True(t, q.Filters.Equal(parsed.Filters))
	assert.Equal(t, *q.Bounds, *parsed.Bounds)
}
