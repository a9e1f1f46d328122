package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/google/uuid"
)

const maxCommentLength = 2000

type CreateReviewUseCase struct {
	reviews  port.ReviewRepositoryPort
	listings port.ListingRepositoryPort
	notifier port.NotifierPort
}

func NewCreateReviewUseCase(reviews port.ReviewRepositoryPort, listings port.ListingRepositoryPort, notifier port.NotifierPort) *CreateReviewUseCase {
	return &CreateReviewUseCase{reviews: reviews, listings: listings, notifier: notifier}
}

// Execute сохраняет отзыв. Один пользователь - один отзыв на карточку.
func (uc *CreateReviewUseCase) Execute(ctx context.Context, review domain.Review) (*domain.Review, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "CreateReview",
		"user_id":    review.UserID,
		"listing_id": review.ListingID,
	})
	ucLogger.Info("Use case started", nil)

	if review.Rating < domain.MinRating || review.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	review.Comment = strings.TrimSpace(review.Comment)
	if len([]rune(review.Comment)) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment is too long", domain.ErrInvalidInput)
	}

	listing, err := uc.listings.GetByID(ctx, review.ListingID)
	if err != nil {
		return nil, err
	}
	if !isPublic(listing) {
		return nil, domain.ErrListingNotFound
	}

	created, err := uc.reviews.Create(ctx, review)
	if err != nil {
		ucLogger.Warn("Review was not saved", port.Fields{"error": err.Error()})
		return nil, err
	}

	notify(ctx, uc.notifier, domain.NotificationEvent{
		ID:          uuid.New().String(),
		Type:        domain.NotificationReviewCreated,
		OccurredAt:  time.Now().UTC(),
		ListingID:   listing.ID,
		ListingName: listing.Name,
		Recipient:   listing.Email,
		Rating:      created.Rating,
	}, ucLogger)

	ucLogger.Info("Use case finished successfully", port.Fields{"review_id": created.ID})
	return created, nil
}
