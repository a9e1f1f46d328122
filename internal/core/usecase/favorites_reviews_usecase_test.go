package usecase

import (
	"context"
	"testing"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	listings := newFakeListingRepo(approved(1, "45", "4"), approved(2, "46", "4"), approved(3, "47", "4"))
	favs := newFakeFavoritesRepo()
	ctx := context.Background()

	add := NewAddToFavoritesUseCase(favs, listings)
	require.NoError(t, add.Execute(ctx, "u1", 1))
	require.NoError(t, add.Execute(ctx, "u1", 3))
	require.NoError(t, add.Execute(ctx, "u1", 2))
	require.NoError(t, add.Execute(ctx, "u1", 2), "adding twice is not an error")
	assert.ErrorIs(t, add.Execute(ctx, "u1", 404), domain.ErrListingNotFound)

	page, err := NewGetUserFavoritesUseCase(favs, listings).Execute(ctx, "u1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Listings, 2)
	// новые сверху, несмотря на порядок FindByIDs
	assert.Equal(t, int64(2), page.Listings[0].ID)
	assert.Equal(t, int64(3), page.Listings[1].ID)

	require.NoError(t, NewRemoveFromFavoritesUseCase(favs).Execute(ctx, "u1", 3))
	ids, err := NewGetUserFavoritesIdsUseCase(favs).Execute(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids)

	empty, err := NewGetUserFavoritesIdsUseCase(favs).Execute(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

func TestReviews(t *testing.T) {
	listings := newFakeListingRepo(approved(1, "45", "4"))
	reviews := &fakeReviewRepo{}
	notifier := &fakeNotifier{}
	create := NewCreateReviewUseCase(reviews, listings, notifier)
	ctx := context.Background()

	_, err := create.Execute(ctx, domain.Review{ListingID: 1, UserID: "u1", Rating: 4, Comment: "  Très bon accueil  "})
	require.NoError(t, err)
	_, err = create.Execute(ctx, domain.Review{ListingID: 1, UserID: "u2", Rating: 5})
	require.NoError(t, err)

	_, err = create.Execute(ctx, domain.Review{ListingID: 1, UserID: "u1", Rating: 3})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	_, err = create.Execute(ctx, domain.Review{ListingID: 1, UserID: "u3", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = create.Execute(ctx, domain.Review{ListingID: 9, UserID: "u3", Rating: 3})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	summary, err := NewGetReviewsUseCase(reviews).Execute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.AverageRating, 1e-9)
	assert.Equal(t, "Très bon accueil", summary.Reviews[0].Comment)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, domain.NotificationReviewCreated, notifier.events[0].Type)
	assert.Equal(t, 4, notifier.events[0].Rating)
}

func TestSendNotification(t *testing.T) {
	mailer := &fakeMailer{}
	uc := NewSendNotificationUseCase(mailer)
	ctx := context.Background()

	err := uc.Execute(ctx, domain.NotificationEvent{
		Type:        domain.NotificationListingRejected,
		ListingName: "Ferme du Val",
		Recipient:   "val@example.fr",
		Reason:      "adresse incomplète",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "val@example.fr", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "adresse incomplète")

	err = uc.Execute(ctx, domain.NotificationEvent{Type: "unknown", Recipient: "a@b.fr"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.Execute(ctx, domain.NotificationEvent{Type: domain.NotificationListingApproved, ListingName: "x", Recipient: "fail@example.fr"})
	assert.ErrorContains(t, err, "smtp unavailable")
}
