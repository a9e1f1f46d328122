package usecases_port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

type AddToFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID string, listingID int64) error
}

type RemoveFromFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID string, listingID int64) error
}

type GetUserFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID string, limit, offset int) (*domain.PaginatedFavorites, error)
}

type GetUserFavoritesIdsUseCasePort interface {
	Execute(ctx context.Context, userID string) ([]int64, error)
}
