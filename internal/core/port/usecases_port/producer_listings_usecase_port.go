package usecases_port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

type CreateListingUseCasePort interface {
	Execute(ctx context.Context, producerID string, draft domain.ListingDraft) (*domain.Listing, error)
}

type UpdateListingUseCasePort interface {
	Execute(ctx context.Context, producerID string, listingID int64, draft domain.ListingDraft) (*domain.Listing, error)
}

type DeactivateListingUseCasePort interface {
	Execute(ctx context.Context, producerID string, listingID int64) error
}

type GetPendingListingsUseCasePort interface {
	Execute(ctx context.Context, limit, offset int) (*domain.PaginatedListings, error)
}

type ModerateListingUseCasePort interface {
	Approve(ctx context.Context, listingID int64) (*domain.Listing, error)
	Reject(ctx context.Context, listingID int64, reason string) (*domain.Listing, error)
}

type AddProductUseCasePort interface {
	Execute(ctx context.Context, producerID string, product domain.Product) (*domain.Product, error)
}

type GetProductsUseCasePort interface {
	Execute(ctx context.Context, listingID int64) ([]domain.Product, error)
}
