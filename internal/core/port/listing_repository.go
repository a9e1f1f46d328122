package port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// ListingRepositoryPort - хранилище карточек
type ListingRepositoryPort interface {
	ListingSourcePort

	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Create(ctx context.Context, listing domain.Listing) (*domain.Listing, error)
	Update(ctx context.Context, listing domain.Listing) (*domain.Listing, error)
	SetStatus(ctx context.Context, id int64, status domain.ListingStatus, active bool) error
	Deactivate(ctx context.Context, id int64) error
	FindByStatus(ctx context.Context, status domain.ListingStatus, limit, offset int) (*domain.PaginatedListings, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Listing, error)
	// DistinctAttributeValues - все значения атрибута среди активных карточек
	DistinctAttributeValues(ctx context.Context, category domain.FilterCategory) ([]string, error)
}
