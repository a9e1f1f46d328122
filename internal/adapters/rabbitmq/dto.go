package rabbitmq

import (
	"fmt"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"

	"github.com/google/uuid"
)

// NotificationEventDTO - структура контракта, точно соответствует JSON-схемам событий
type NotificationEventDTO struct {
	EventID     uuid.UUID `json:"event_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	ListingID   int64     `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	Recipient   string    `json:"recipient"`
	Reason      *string   `json:"reason,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
}

func toNotificationDTO(event domain.NotificationEvent) (NotificationEventDTO, error) {
	id, err := uuid.Parse(event.ID)
	if err != nil {
		// у событий, созданных без ID, он появляется здесь
		id = uuid.New()
	}

	dto := NotificationEventDTO{
		EventID:     id,
		EventType:   string(event.Type),
		OccurredAt:  event.OccurredAt.UTC(),
		ListingID:   event.ListingID,
		ListingName: event.ListingName,
		Recipient:   event.Recipient,
	}
	if dto.OccurredAt.IsZero() {
		dto.OccurredAt = time.Now().UTC()
	}

	switch event.Type {
	case domain.NotificationListingApproved:
	case domain.NotificationListingRejected:
		reason := event.Reason
		dto.Reason = &reason
	case domain.NotificationReviewCreated:
		rating := event.Rating
		dto.Rating = &rating
	default:
		return NotificationEventDTO{}, fmt.Errorf("unknown notification type: %q", event.Type)
	}
	return dto, nil
}

func toDomainEvent(dto NotificationEventDTO, version string) domain.NotificationEvent {
	event := domain.NotificationEvent{
		ID:          dto.EventID.String(),
		Type:        domain.NotificationType(dto.EventType),
		Version:     version,
		OccurredAt:  dto.OccurredAt,
		ListingID:   dto.ListingID,
		ListingName: dto.ListingName,
		Recipient:   dto.Recipient,
	}
	if dto.Reason != nil {
		event.Reason = *dto.Reason
	}
	if dto.Rating != nil {
		event.Rating = *dto.Rating
	}
	return event
}
