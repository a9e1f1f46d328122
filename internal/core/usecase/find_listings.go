package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type FindListingsUseCase struct {
	repo port.ListingRepositoryPort
}

func NewFindListingsUseCase(repo port.ListingRepositoryPort) *FindListingsUseCase {
	return &FindListingsUseCase{repo: repo}
}

// Execute возвращает страницу одобренных активных карточек с фильтрами и границами карты
func (uc *FindListingsUseCase) Execute(ctx context.Context, query port.ListingQuery) (*domain.PaginatedListings, error) {
	if query.Limit <= 0 {
		query.Limit = DefaultPageSize
	}
	if query.Limit > MaxPageSize {
		query.Limit = MaxPageSize
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "FindListings",
		"limit":      query.Limit,
		"offset":     query.Offset,
		"has_bounds": query.Bounds != nil,
	})
	ucLogger.Info("Use case started", nil)

	page, err := uc.repo.FetchPage(ctx, query)
	if err != nil {
		ucLogger.Error("Failed to fetch listings page", err, nil)
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	result := &domain.PaginatedListings{
		Listings:     page.Listings,
		TotalCount:   page.TotalCount,
		CurrentPage:  query.Offset/query.Limit + 1,
		ItemsPerPage: query.Limit,
	}
	if result.Listings == nil {
		result.Listings = []domain.Listing{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"returned":    len(result.Listings),
		"total_count": result.TotalCount,
	})
	return result, nil
}
