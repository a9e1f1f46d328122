package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type GetUserFavoritesUseCase struct {
	favoritesRepo port.FavoritesRepositoryPort
	listings      port.ListingRepositoryPort
}

func NewGetUserFavoritesUseCase(favoritesRepo port.FavoritesRepositoryPort, listings port.ListingRepositoryPort) *GetUserFavoritesUseCase {
	return &GetUserFavoritesUseCase{
		favoritesRepo: favoritesRepo,
		listings:      listings,
	}
}

func (uc *GetUserFavoritesUseCase) Execute(ctx context.Context, userID string, limit, offset int) (*domain.PaginatedFavorites, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetUserFavorites",
		"user_id":  userID,
		"limit":    limit,
		"offset":   offset,
	})
	ucLogger.Info("Use case started", nil)

	// Шаг 1: страница ID из избранного, новые сверху
	paginatedIDs, err := uc.favoritesRepo.FindPaginatedByUser(ctx, userID, limit, offset)
	if err != nil {
		ucLogger.Error("Failed to get favorite IDs from repository", err, nil)
		return nil, fmt.Errorf("failed to get favorite IDs: %w", err)
	}

	result := &domain.PaginatedFavorites{
		Listings:     []domain.Listing{},
		TotalCount:   paginatedIDs.TotalCount,
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}
	if len(paginatedIDs.ListingIDs) == 0 {
		ucLogger.Info("No favorites on page", port.Fields{"total_count": paginatedIDs.TotalCount})
		return result, nil
	}

	// Шаг 2: обогащаем карточками
	listings, err := uc.listings.FindByIDs(ctx, paginatedIDs.ListingIDs)
	if err != nil {
		ucLogger.Error("Failed to load favorite listings", err, nil)
		return nil, fmt.Errorf("failed to load favorite listings: %w", err)
	}

	// Шаг 3: восстанавливаем порядок избранного, репозиторий его не гарантирует
	byID := make(map[int64]domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}
	for _, id := range paginatedIDs.ListingIDs {
		if l, ok := byID[id]; ok {
			result.Listings = append(result.Listings, l)
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"returned": len(result.Listings)})
	return result, nil
}
