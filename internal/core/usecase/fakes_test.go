package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type fakeListingRepo struct {
	mu       sync.Mutex
	nextID   int64
	listings map[int64]domain.Listing
	values   map[domain.FilterCategory][]string
	fetchErr error
	queries  []port.ListingQuery
}

func newFakeListingRepo(listings ...domain.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: make(map[int64]domain.Listing), values: make(map[domain.FilterCategory][]string)}
	for _, l := range listings {
		r.listings[l.ID] = l
		if l.ID > r.nextID {
			r.nextID = l.ID
		}
	}
	return r
}

func (r *fakeListingRepo) sorted() []domain.Listing {
	out := make([]domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeListingRepo) FetchPage(ctx context.Context, q port.ListingQuery) (*port.ListingPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	var public []domain.Listing
	for _, l := range r.sorted() {
		if l.Active && l.Status == domain.ListingStatusApproved {
			public = append(public, l)
		}
	}
	matched := domain.VisibleListings(domain.FilterListings(public, q.Filters), q.Bounds)
	page := &port.ListingPage{TotalCount: len(matched)}
	if q.Offset < len(matched) {
		end := q.Offset + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Listings = matched[q.Offset:end]
	}
	return page, nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (r *fakeListingRepo) Create(ctx context.Context, l domain.Listing) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.listings[l.ID] = l
	return &l, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l domain.Listing) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID]; !ok {
		return nil, domain.ErrListingNotFound
	}
	r.listings[l.ID] = l
	return &l, nil
}

func (r *fakeListingRepo) SetStatus(ctx context.Context, id int64, status domain.ListingStatus, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Status = status
	l.Active = active
	r.listings[id] = l
	return nil
}

func (r *fakeListingRepo) Deactivate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Active = false
	r.listings[id] = l
	return nil
}

func (r *fakeListingRepo) FindByStatus(ctx context.Context, status domain.ListingStatus, limit, offset int) (*domain.PaginatedListings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.sorted() {
		if l.Status == status {
			out = append(out, l)
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return &domain.PaginatedListings{Listings: out, TotalCount: total, CurrentPage: offset/limit + 1, ItemsPerPage: limit}, nil
}

func (r *fakeListingRepo) FindByIDs(ctx context.Context, ids []int64) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Listing
	// порядок намеренно по возрастанию ID, а не как в запросе
	for _, l := range r.sorted() {
		for _, id := range ids {
			if l.ID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (r *fakeListingRepo) DistinctAttributeValues(ctx context.Context, c domain.FilterCategory) ([]string, error) {
	return r.values[c], nil
}

type fakeFavoritesRepo struct {
	byUser map[string][]int64
}

func newFakeFavoritesRepo() *fakeFavoritesRepo {
	return &fakeFavoritesRepo{byUser: make(map[string][]int64)}
}

func (f *fakeFavoritesRepo) Add(ctx context.Context, userID string, listingID int64) error {
	for _, id := range f.byUser[userID] {
		if id == listingID {
			return nil
		}
	}
	// новые сверху
	f.byUser[userID] = append([]int64{listingID}, f.byUser[userID]...)
	return nil
}

func (f *fakeFavoritesRepo) Remove(ctx context.Context, userID string, listingID int64) error {
	ids := f.byUser[userID]
	for i, id := range ids {
		if id == listingID {
			f.byUser[userID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeFavoritesRepo) FindPaginatedByUser(ctx context.Context, userID string, limit, offset int) (*domain.PaginatedFavoriteIDs, error) {
	ids := f.byUser[userID]
	total := int64(len(ids))
	if offset > len(ids) {
		offset = len(ids)
	}
	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return &domain.PaginatedFavoriteIDs{ListingIDs: ids, TotalCount: total, CurrentPage: offset/limit + 1, ItemsPerPage: limit}, nil
}

func (f *fakeFavoritesRepo) FindIDsByUser(ctx context.Context, userID string) ([]int64, error) {
	return f.byUser[userID], nil
}

type fakeReviewRepo struct {
	reviews []domain.Review
}

func (f *fakeReviewRepo) Create(ctx context.Context, r domain.Review) (*domain.Review, error) {
	for _, existing := range f.reviews {
		if existing.ListingID == r.ListingID && existing.UserID == r.UserID {
			return nil, domain.ErrAlreadyReviewed
		}
	}
	r.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, r)
	return &r, nil
}

func (f *fakeReviewRepo) FindByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products []domain.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = int64(len(f.products) + 1)
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeProductRepo) FindByListing(ctx context.Context, listingID int64) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.ListingID == listingID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	events []domain.NotificationEvent
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, e domain.NotificationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

type fakeMailer struct {
	sent []domain.Mail
}

func (f *fakeMailer) Send(ctx context.Context, m domain.Mail) error {
	if m.To == "fail@example.fr" {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, m)
	return nil
}

func approved(id int64, lat, lng string, certs ...string) domain.Listing {
	return domain.Listing{
		ID:             id,
		ProducerID:     "producer-1",
		Name:           "Ferme",
		Email:          "ferme@example.fr",
		Lat:            lat,
		Lng:            lng,
		Certifications: certs,
		Status:         domain.ListingStatusApproved,
		Active:         true,
	}
}
