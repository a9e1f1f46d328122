package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/contracts"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// NotificationRoutingKeys - ключи маршрутизации, по одному на тип события
var NotificationRoutingKeys = []string{
	string(domain.NotificationListingApproved),
	string(domain.NotificationListingRejected),
	string(domain.NotificationReviewCreated),
}

// NotificationPublisherAdapter публикует транзакционные события в exchange уведомлений
type NotificationPublisherAdapter struct {
	producer messagePublisher
}

func NewNotificationPublisherAdapter(producer messagePublisher) (*NotificationPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &NotificationPublisherAdapter{producer: producer}, nil
}

// Notify проверяет событие по схеме и отправляет его с ключом, равным типу события
func (a *NotificationPublisherAdapter) Notify(ctx context.Context, event domain.NotificationEvent) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "NotificationPublisherAdapter",
		"event_type": string(event.Type),
		"listing_id": event.ListingID,
	})

	dto, err := toNotificationDTO(event)
	if err != nil {
		adapterLogger.Error("Could not translate notification event", err, nil)
		return err
	}

	body, err := json.Marshal(dto)
	if err != nil {
		adapterLogger.Error("Failed to marshal notification event to JSON", err, nil)
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	eventType := contracts.EventTypeName(event.Type)
	if err := contracts.ValidateEvent(eventType, contracts.EventVersion, body); err != nil {
		adapterLogger.Error("Notification event does not match its schema", err, nil)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    dto.EventID.String(),
		Headers: amqp.Table{
			"event-type":    eventType,
			"event-version": contracts.EventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, string(event.Type), msg); err != nil {
		adapterLogger.Error("Failed to publish notification event", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published notification event", port.Fields{"event_id": dto.EventID.String()})
	return nil
}
