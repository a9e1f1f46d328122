package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type AddProductUseCase struct {
	listings port.ListingRepositoryPort
	products port.ProductRepositoryPort
}

func NewAddProductUseCase(listings port.ListingRepositoryPort, products port.ProductRepositoryPort) *AddProductUseCase {
	return &AddProductUseCase{listings: listings, products: products}
}

func (uc *AddProductUseCase) Execute(ctx context.Context, producerID string, product domain.Product) (*domain.Product, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "AddProduct",
		"producer_id": producerID,
		"listing_id":  product.ListingID,
	})
	ucLogger.Info("Use case started", nil)

	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if product.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if product.StockStatus == "" {
		product.StockStatus = domain.StockInStock
	}
	if !product.StockStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown stock status %q", domain.ErrInvalidInput, product.StockStatus)
	}

	listing, err := uc.listings.GetByID(ctx, product.ListingID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(listing, producerID); err != nil {
		return nil, err
	}

	product.Active = true
	created, err := uc.products.Create(ctx, product)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"product_id": created.ID})
	return created, nil
}
