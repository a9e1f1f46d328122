package usecase

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type GetListingUseCase struct {
	repo port.ListingRepositoryPort
}

func NewGetListingUseCase(repo port.ListingRepositoryPort) *GetListingUseCase {
	return &GetListingUseCase{repo: repo}
}

// Execute отдает карточку только если она видна публично
func (uc *GetListingUseCase) Execute(ctx context.Context, id int64) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetListing",
		"listing_id": id,
	})

	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		ucLogger.Warn("Listing lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}
	if !isPublic(listing) {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

func isPublic(l *domain.Listing) bool {
	return l.Active && l.Status == domain.ListingStatusApproved
}
