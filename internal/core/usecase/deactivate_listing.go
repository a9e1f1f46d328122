package usecase

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type DeactivateListingUseCase struct {
	repo port.ListingRepositoryPort
}

func NewDeactivateListingUseCase(repo port.ListingRepositoryPort) *DeactivateListingUseCase {
	return &DeactivateListingUseCase{repo: repo}
}

// Execute - мягкое удаление: active=false, строка остается в базе
func (uc *DeactivateListingUseCase) Execute(ctx context.Context, producerID string, listingID int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "DeactivateListing",
		"producer_id": producerID,
		"listing_id":  listingID,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if err := checkOwner(listing, producerID); err != nil {
		ucLogger.Warn("Producer tried to delete a listing they do not own", nil)
		return err
	}

	if err := uc.repo.Deactivate(ctx, listingID); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
