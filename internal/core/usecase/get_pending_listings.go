package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type GetPendingListingsUseCase struct {
	repo port.ListingRepositoryPort
}

func NewGetPendingListingsUseCase(repo port.ListingRepositoryPort) *GetPendingListingsUseCase {
	return &GetPendingListingsUseCase{repo: repo}
}

func (uc *GetPendingListingsUseCase) Execute(ctx context.Context, limit, offset int) (*domain.PaginatedListings, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetPendingListings",
		"limit":    limit,
		"offset":   offset,
	})

	result, err := uc.repo.FindByStatus(ctx, domain.ListingStatusPending, limit, offset)
	if err != nil {
		ucLogger.Error("Failed to load pending listings", err, nil)
		return nil, fmt.Errorf("failed to load pending listings: %w", err)
	}
	return result, nil
}
