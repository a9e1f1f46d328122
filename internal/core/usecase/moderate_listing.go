package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/google/uuid"
)

type ModerateListingUseCase struct {
	repo     port.ListingRepositoryPort
	notifier port.NotifierPort
}

func NewModerateListingUseCase(repo port.ListingRepositoryPort, notifier port.NotifierPort) *ModerateListingUseCase {
	return &ModerateListingUseCase{repo: repo, notifier: notifier}
}

// Approve публикует карточку: status=approved, active=true
func (uc *ModerateListingUseCase) Approve(ctx context.Context, listingID int64) (*domain.Listing, error) {
	return uc.moderate(ctx, listingID, domain.ListingStatusApproved, "")
}

// Reject снимает карточку с публикации: status=rejected, active=false
func (uc *ModerateListingUseCase) Reject(ctx context.Context, listingID int64, reason string) (*domain.Listing, error) {
	return uc.moderate(ctx, listingID, domain.ListingStatusRejected, reason)
}

func (uc *ModerateListingUseCase) moderate(ctx context.Context, listingID int64, target domain.ListingStatus, reason string) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "ModerateListing",
		"listing_id": listingID,
		"target":     string(target),
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == target {
		return nil, fmt.Errorf("%w: listing is already %s", domain.ErrInvalidState, target)
	}

	active := target == domain.ListingStatusApproved
	if err := uc.repo.SetStatus(ctx, listingID, target, active); err != nil {
		ucLogger.Error("Failed to update listing status", err, nil)
		return nil, fmt.Errorf("failed to update listing status: %w", err)
	}
	listing.Status = target
	listing.Active = active

	event := domain.NotificationEvent{
		ID:          uuid.New().String(),
		OccurredAt:  time.Now().UTC(),
		ListingID:   listing.ID,
		ListingName: listing.Name,
		Recipient:   listing.Email,
	}
	if target == domain.ListingStatusApproved {
		event.Type = domain.NotificationListingApproved
	} else {
		event.Type = domain.NotificationListingRejected
		event.Reason = reason
	}
	notify(ctx, uc.notifier, event, ucLogger)

	ucLogger.Info("Use case finished successfully", nil)
	return listing, nil
}

// notify публикует событие. Ошибка только логируется: модерация уже сохранена.
func notify(ctx context.Context, notifier port.NotifierPort, event domain.NotificationEvent, logger port.LoggerPort) {
	if notifier == nil {
		return
	}
	if event.Recipient == "" {
		logger.Warn("Listing has no contact email, notification skipped", port.Fields{"event_type": string(event.Type)})
		return
	}
	if err := notifier.Notify(ctx, event); err != nil {
		logger.Error("Failed to publish notification", err, port.Fields{"event_type": string(event.Type)})
	}
}
