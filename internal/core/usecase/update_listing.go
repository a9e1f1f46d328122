package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type UpdateListingUseCase struct {
	repo port.ListingRepositoryPort
}

func NewUpdateListingUseCase(repo port.ListingRepositoryPort) *UpdateListingUseCase {
	return &UpdateListingUseCase{repo: repo}
}

// Execute меняет описательные поля и атрибуты. Статус модерации не трогаем.
func (uc *UpdateListingUseCase) Execute(ctx context.Context, producerID string, listingID int64, draft domain.ListingDraft) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "UpdateListing",
		"producer_id": producerID,
		"listing_id":  listingID,
	})
	ucLogger.Info("Use case started", nil)

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	listing, err := uc.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(listing, producerID); err != nil {
		ucLogger.Warn("Producer tried to update a listing they do not own", nil)
		return nil, err
	}

	draft.Apply(listing)
	listing.Geohash = domain.ListingGeohash(*listing, domain.ListingGeohashPrecision)

	updated, err := uc.repo.Update(ctx, *listing)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return updated, nil
}
