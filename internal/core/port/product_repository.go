package port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

type ProductRepositoryPort interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	FindByListing(ctx context.Context, listingID int64) ([]domain.Product, error)
}
