package usecases_port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

type CreateReviewUseCasePort interface {
	Execute(ctx context.Context, review domain.Review) (*domain.Review, error)
}

type GetReviewsUseCasePort interface {
	Execute(ctx context.Context, listingID int64) (*domain.ReviewSummary, error)
}
