package port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

type ReviewRepositoryPort interface {
	// Create возвращает domain.ErrAlreadyReviewed, если пользователь уже оставил отзыв
	Create(ctx context.Context, review domain.Review) (*domain.Review, error)
	FindByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
}
