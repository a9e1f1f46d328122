package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	routingKeys []string
	messages    []amqp.Publishing
	err         error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.messages = append(p.messages, msg)
	return nil
}

type recordingSend struct {
	events []domain.NotificationEvent
	err    error
}

func (s *recordingSend) Execute(ctx context.Context, event domain.NotificationEvent) error {
	s.events = append(s.events, event)
	return s.err
}

type recordingLogger struct {
	entries []port.Fields
}

func (l *recordingLogger) record(fields port.Fields) { l.entries = append(l.entries, fields) }

func (l *recordingLogger) Info(msg string, fields port.Fields)             { l.record(fields) }
func (l *recordingLogger) Warn(msg string, fields port.Fields)             { l.record(fields) }
func (l *recordingLogger) Error(msg string, err error, fields port.Fields) { l.record(fields) }
func (l *recordingLogger) Debug(msg string, fields port.Fields)            { l.record(fields) }
func (l *recordingLogger) WithFields(fields port.Fields) port.LoggerPort   { return l }

func rejectedEvent() domain.NotificationEvent {
	return domain.NotificationEvent{
		Type:        domain.NotificationListingRejected,
		OccurredAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ListingID:   12,
		ListingName: "Ferme des Lilas",
		Recipient:   "producteur@example.fr",
		Reason:      "adresse incomplète",
	}
}

func TestNotify_PublishesValidatedEvent(t *testing.T) {
	producer := &recordingPublisher{}
	adapter, err := NewNotificationPublisherAdapter(producer)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, adapter.Notify(ctx, rejectedEvent()))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "listing-rejected", producer.routingKeys[0])
	assert.Equal(t, "ListingRejectedEvent", msg.Headers["event-type"])
	assert.Equal(t, "1.0.0", msg.Headers["event-version"])
	assert.Equal(t, "trace-1", msg.Headers["x-trace-id"])
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Contains(t, string(msg.Body), `"reason":"adresse incomplète"`)
	assert.NotContains(t, string(msg.Body), `"rating"`)
}

func TestNotify_RejectsEventOutsideContract(t *testing.T) {
	producer := &recordingPublisher{}
	adapter, err := NewNotificationPublisherAdapter(producer)
	require.NoError(t, err)

	event := rejectedEvent()
	event.Type = domain.NotificationReviewCreated
	event.Rating = 0
	assert.Error(t, adapter.Notify(context.Background(), event))

	event = rejectedEvent()
	event.Recipient = "not-an-email"
	assert.Error(t, adapter.Notify(context.Background(), event))

	event.Type = "unknown"
	assert.Error(t, adapter.Notify(context.Background(), event))

	assert.Empty(t, producer.messages)
}

func TestNotify_PublishError(t *testing.T) {
	adapter, err := NewNotificationPublisherAdapter(&recordingPublisher{err: errors.New("channel closed")})
	require.NoError(t, err)
	assert.Error(t, adapter.Notify(context.Background(), rejectedEvent()))
}

func TestMessageHandler_RoundTrip(t *testing.T) {
	producer := &recordingPublisher{}
	publisher, err := NewNotificationPublisherAdapter(producer)
	require.NoError(t, err)

	event := rejectedEvent()
	event.Type = domain.NotificationReviewCreated
	event.Rating = 4
	require.NoError(t, publisher.Notify(context.Background(), event))

	send := &recordingSend{}
	consumer := &NotificationConsumerAdapter{sendUC: send, logger: contextkeys.NoopLogger()}

	msg := producer.messages[0]
	delivery := amqp.Delivery{Headers: msg.Headers, Body: msg.Body, RoutingKey: producer.routingKeys[0]}
	require.NoError(t, consumer.messageHandler(context.Background(), delivery))

	require.Len(t, send.events, 1)
	got := send.events[0]
	assert.Equal(t, domain.NotificationReviewCreated, got.Type)
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, int64(12), got.ListingID)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "producteur@example.fr", got.Recipient)
	assert.True(t, event.OccurredAt.Equal(got.OccurredAt))
	assert.NotEmpty(t, got.ID)
}

func TestMessageHandler_DropsInvalidAndRetriesFailures(t *testing.T) {
	send := &recordingSend{}
	consumer := &NotificationConsumerAdapter{sendUC: send, logger: contextkeys.NoopLogger()}

	invalid := amqp.Delivery{
		Headers: amqp.Table{"event-type": "ListingApprovedEvent", "event-version": "1.0.0"},
		Body:    []byte(`{"event_type":"listing-approved"}`),
	}
	assert.NoError(t, consumer.messageHandler(context.Background(), invalid))

	unknown := amqp.Delivery{Headers: amqp.Table{"event-type": "Nope", "event-version": "9"}, Body: []byte(`{}`)}
	assert.NoError(t, consumer.messageHandler(context.Background(), unknown))
	assert.Empty(t, send.events)

	producer := &recordingPublisher{}
	publisher, err := NewNotificationPublisherAdapter(producer)
	require.NoError(t, err)
	require.NoError(t, publisher.Notify(context.Background(), rejectedEvent()))

	send.err = errors.New("smtp down")
	msg := producer.messages[0]
	assert.Error(t, consumer.messageHandler(context.Background(), amqp.Delivery{Headers: msg.Headers, Body: msg.Body}))
}

func TestPkgLoggerBridge(t *testing.T) {
	logger := &recordingLogger{}
	bridge := NewPkgLoggerBridge(logger)

	bridge.Info("connected", "url", "amqp://x", 42, "skipped", "dangling")
	bridge.Error(errors.New("boom"), "failed", "queue", "q1")

	require.Len(t, logger.entries, 2)
	assert.Equal(t, port.Fields{"url": "amqp://x"}, logger.entries[0])
	assert.Equal(t, port.Fields{"queue": "q1"}, logger.entries[1])
}
