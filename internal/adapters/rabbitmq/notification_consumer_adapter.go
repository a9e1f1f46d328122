package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/contracts"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port/usecases_port"
	"github.com/Robb753/farm-to-fork-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/Robb753/farm-to-fork-sub000/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationConsumerAdapter - входящий адаптер: читает события уведомлений и отправляет письма
type NotificationConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	sendUC   usecases_port.SendNotificationUseCasePort
	logger   port.LoggerPort
}

func NewNotificationConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	sendUC usecases_port.SendNotificationUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*NotificationConsumerAdapter, error) {
	adapter := &NotificationConsumerAdapter{
		sendUC: sendUC,
		logger: logger,
	}

	// логгер pkg-уровня с контекстом нашего компонента
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_distributing_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for notifications: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// Start блокируется до отмены ctx
func (a *NotificationConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *NotificationConsumerAdapter) Close() error {
	return a.consumer.Close()
}

func (a *NotificationConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID, ok := d.Headers["x-trace-id"].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
		"routing_key":  d.RoutingKey,
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	msgLogger.Info("Received notification event", nil)

	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		// сообщение не по контракту повторять бессмысленно
		msgLogger.Error("Message failed schema validation, dropping", err, port.Fields{"event_type": eventType})
		return nil
	}

	var dto NotificationEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Error("Error unmarshalling notification DTO, dropping", err, nil)
		return nil
	}

	if err := a.sendUC.Execute(ctx, toDomainEvent(dto, eventVersion)); err != nil {
		msgLogger.Error("Send notification use case failed", err, nil)
		return err // для retry
	}
	return nil
}
