package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type GetReviewsUseCase struct {
	reviews port.ReviewRepositoryPort
}

func NewGetReviewsUseCase(reviews port.ReviewRepositoryPort) *GetReviewsUseCase {
	return &GetReviewsUseCase{reviews: reviews}
}

func (uc *GetReviewsUseCase) Execute(ctx context.Context, listingID int64) (*domain.ReviewSummary, error) {
	reviews, err := uc.reviews.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	summary := domain.Summarize(reviews)
	return &summary, nil
}
