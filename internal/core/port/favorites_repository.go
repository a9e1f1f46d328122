package port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// FavoritesRepositoryPort - избранное пользователей
type FavoritesRepositoryPort interface {
	Add(ctx context.Context, userID string, listingID int64) error
	Remove(ctx context.Context, userID string, listingID int64) error
	FindPaginatedByUser(ctx context.Context, userID string, limit, offset int) (*domain.PaginatedFavoriteIDs, error)
	FindIDsByUser(ctx context.Context, userID string) ([]int64, error)
}
