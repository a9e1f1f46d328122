package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type CreateListingUseCase struct {
	repo port.ListingRepositoryPort
}

func NewCreateListingUseCase(repo port.ListingRepositoryPort) *CreateListingUseCase {
	return &CreateListingUseCase{repo: repo}
}

// Execute создает карточку на модерации, она не видна до одобрения
func (uc *CreateListingUseCase) Execute(ctx context.Context, producerID string, draft domain.ListingDraft) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "CreateListing",
		"producer_id": producerID,
	})
	ucLogger.Info("Use case started", nil)

	if err := validateDraft(draft); err != nil {
		ucLogger.Warn("Draft rejected by validation", port.Fields{"error": err.Error()})
		return nil, err
	}

	listing := domain.Listing{
		ProducerID: producerID,
		Status:     domain.ListingStatusPending,
		Active:     false,
	}
	draft.Apply(&listing)
	listing.Geohash = domain.ListingGeohash(listing, domain.ListingGeohashPrecision)

	created, err := uc.repo.Create(ctx, listing)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"listing_id": created.ID})
	return created, nil
}
