package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type GetUserFavoritesIdsUseCase struct {
	favoritesRepo port.FavoritesRepositoryPort
}

func NewGetUserFavoritesIdsUseCase(favoritesRepo port.FavoritesRepositoryPort) *GetUserFavoritesIdsUseCase {
	return &GetUserFavoritesIdsUseCase{favoritesRepo: favoritesRepo}
}

func (uc *GetUserFavoritesIdsUseCase) Execute(ctx context.Context, userID string) ([]int64, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetUserFavoritesIds",
		"user_id":  userID,
	})

	ids, err := uc.favoritesRepo.FindIDsByUser(ctx, userID)
	if err != nil {
		ucLogger.Error("Failed to get favorite IDs from repository", err, nil)
		return nil, fmt.Errorf("failed to get favorite IDs: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
