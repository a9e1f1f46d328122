package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type GetProductsUseCase struct {
	listings port.ListingRepositoryPort
	products port.ProductRepositoryPort
}

func NewGetProductsUseCase(listings port.ListingRepositoryPort, products port.ProductRepositoryPort) *GetProductsUseCase {
	return &GetProductsUseCase{listings: listings, products: products}
}

func (uc *GetProductsUseCase) Execute(ctx context.Context, listingID int64) ([]domain.Product, error) {
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !isPublic(listing) {
		return nil, domain.ErrListingNotFound
	}

	products, err := uc.products.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
