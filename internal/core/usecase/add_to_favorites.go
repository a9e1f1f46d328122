package usecase

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type AddToFavoritesUseCase struct {
	repo     port.FavoritesRepositoryPort
	listings port.ListingRepositoryPort
}

func NewAddToFavoritesUseCase(repo port.FavoritesRepositoryPort, listings port.ListingRepositoryPort) *AddToFavoritesUseCase {
	return &AddToFavoritesUseCase{repo: repo, listings: listings}
}

// Execute идемпотентен: повторное добавление не ошибка
func (uc *AddToFavoritesUseCase) Execute(ctx context.Context, userID string, listingID int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "AddToFavorites",
		"user_id":    userID,
		"listing_id": listingID,
	})
	ucLogger.Info("Use case started", nil)

	if _, err := uc.listings.GetByID(ctx, listingID); err != nil {
		return err
	}

	if err := uc.repo.Add(ctx, userID, listingID); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
