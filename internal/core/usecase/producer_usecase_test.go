package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() domain.ListingDraft {
	return domain.ListingDraft{
		Name:       "Ferme des Lilas",
		Address:    "12 route des Vignes, Lyon",
		Email:      "lilas@example.fr",
		Lat:        "45.7640",
		Lng:        "4.8357",
		Attributes: domain.NewFilterState().With(domain.CategoryProductType, "fruits", "légumes"),
	}
}

func TestCreateListing(t *testing.T) {
	repo := newFakeListingRepo()
	created, err := NewCreateListingUseCase(repo).Execute(context.Background(), "producer-7", validDraft())
	require.NoError(t, err)

	assert.Equal(t, "producer-7", created.ProducerID)
	assert.Equal(t, domain.ListingStatusPending, created.Status)
	assert.False(t, created.Active)
	assert.Equal(t, []string{"fruits", "légumes"}, created.ProductType)
	assert.Len(t, created.Geohash, int(domain.ListingGeohashPrecision))
}

func TestCreateListing_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *domain.ListingDraft)
	}{
		{"empty name", func(d *domain.ListingDraft) { d.Name = "  " }},
		{"empty address", func(d *domain.ListingDraft) { d.Address = "" }},
		{"bad lat", func(d *domain.ListingDraft) { d.Lat = "north" }},
		{"lat out of range", func(d *domain.ListingDraft) { d.Lat = "91" }},
		{"lng out of range", func(d *domain.ListingDraft) { d.Lng = "-180.5" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := NewCreateListingUseCase(newFakeListingRepo()).Execute(context.Background(), "p", d)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateAndDeactivate_OwnerOnly(t *testing.T) {
	repo := newFakeListingRepo(approved(1, "45", "4"))
	update := NewUpdateListingUseCase(repo)
	deactivate := NewDeactivateListingUseCase(repo)

	_, err := update.Execute(context.Background(), "intruder", 1, validDraft())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, deactivate.Execute(context.Background(), "intruder", 1), domain.ErrForbidden)

	updated, err := update.Execute(context.Background(), "producer-1", 1, validDraft())
	require.NoError(t, err)
	assert.Equal(t, "Ferme des Lilas", updated.Name)
	assert.Equal(t, domain.ListingStatusApproved, updated.Status)

	require.NoError(t, deactivate.Execute(context.Background(), "producer-1", 1))
	stored, _ := repo.GetByID(context.Background(), 1)
	assert.False(t, stored.Active)

	assert.ErrorIs(t, deactivate.Execute(context.Background(), "producer-1", 42), domain.ErrListingNotFound)
}

func TestModerateListing(t *testing.T) {
	pending := approved(1, "45", "4")
	pending.Status = domain.ListingStatusPending
	pending.Active = false
	repo := newFakeListingRepo(pending)
	notifier := &fakeNotifier{}
	uc := NewModerateListingUseCase(repo, notifier)

	listing, err := uc.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, listing.Active)
	assert.Equal(t, domain.ListingStatusApproved, listing.Status)

	_, err = uc.Approve(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	listing, err = uc.Reject(context.Background(), 1, "photos manquantes")
	require.NoError(t, err)
	assert.False(t, listing.Active)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, domain.NotificationListingApproved, notifier.events[0].Type)
	assert.Equal(t, domain.NotificationListingRejected, notifier.events[1].Type)
	assert.Equal(t, "photos manquantes", notifier.events[1].Reason)
	assert.Equal(t, "ferme@example.fr", notifier.events[1].Recipient)
	assert.NotEmpty(t, notifier.events[0].ID)
}

func TestModerateListing_NotifierFailureDoesNotFail(t *testing.T) {
	pending := approved(1, "45", "4")
	pending.Status = domain.ListingStatusPending
	repo := newFakeListingRepo(pending)

	_, err := NewModerateListingUseCase(repo, &fakeNotifier{err: errors.New("broker down")}).Approve(context.Background(), 1)
	require.NoError(t, err)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.ListingStatusApproved, stored.Status)
}

func TestGetPendingListings(t *testing.T) {
	pending := approved(2, "45", "4")
	pending.Status = domain.ListingStatusPending
	repo := newFakeListingRepo(approved(1, "45", "4"), pending)

	res, err := NewGetPendingListingsUseCase(repo).Execute(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, int64(2), res.Listings[0].ID)
}

func TestProducts(t *testing.T) {
	listings := newFakeListingRepo(approved(1, "45", "4"))
	products := &fakeProductRepo{}
	add := NewAddProductUseCase(listings, products)

	p, err := add.Execute(context.Background(), "producer-1", domain.Product{ListingID: 1, Name: "Miel de lavande", Unit: "pot 250g", PriceCents: 750})
	require.NoError(t, err)
	assert.Equal(t, domain.StockInStock, p.StockStatus)
	assert.True(t, p.Active)

	_, err = add.Execute(context.Background(), "other", domain.Product{ListingID: 1, Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = add.Execute(context.Background(), "producer-1", domain.Product{ListingID: 1, Name: "x", StockStatus: "plenty"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = add.Execute(context.Background(), "producer-1", domain.Product{ListingID: 1, Name: "x", PriceCents: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := NewGetProductsUseCase(listings, products).Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
