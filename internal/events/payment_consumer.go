package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/yardline/service-rental/internal/domain"
	"github.com/yardline/service-rental/internal/kafka"
	"go.uber.org/zap"
)

// PaymentHandler is the slice of the booking service the payment consumer
// needs.
type PaymentHandler interface {
	HandlePaymentSucceeded(ctx context.Context, bookingID uuid.UUID, amountCents int64) error
}

// PaymentEventConsumer reacts to payment outcomes published by the payment
// collaborator and drives the paid transition.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a consumer bound to the payment topic.
func NewPaymentEventConsumer(brokers []string, groupID string, handler PaymentHandler, logger *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger),
		handler:  handler,
		logger:   logger,
	}
}

// Start blocks consuming payment events until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	c.logger.Info("payment event consumer starting", zap.String("topic", TopicPaymentEvents))
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka reader.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		// Malformed envelope; log and drop, redelivery cannot fix it.
		c.logger.Warn("dropping malformed payment event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	switch event.Type {
	case PaymentSucceeded:
		return c.handlePaymentSucceeded(ctx, event)
	case PaymentFailed:
		return c.handlePaymentFailed(event)
	default:
		c.logger.Debug("ignoring payment event type", zap.String("type", event.Type))
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentSucceeded(ctx context.Context, event kafka.CloudEvent) error {
	var payload PaymentSucceededEvent
	if err := event.ParseData(&payload); err != nil {
		c.logger.Warn("dropping payment.succeeded with bad payload",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return nil
	}

	if err := c.handler.HandlePaymentSucceeded(ctx, payload.BookingID, payload.AmountCents); err != nil {
		// Unknown bookings are facts about another service's data; only
		// transient failures are worth a redelivery.
		if domain.IsNotFound(err) {
			c.logger.Warn("payment.succeeded for unknown booking",
				zap.String("booking_id", payload.BookingID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to apply payment.succeeded: %w", err)
	}

	c.logger.Info("payment applied",
		zap.String("booking_id", payload.BookingID.String()),
		zap.String("payment_id", payload.PaymentID.String()),
	)
	return nil
}

func (c *PaymentEventConsumer) handlePaymentFailed(event kafka.CloudEvent) error {
	var payload PaymentFailedEvent
	if err := event.ParseData(&payload); err != nil {
		c.logger.Warn("dropping payment.failed with bad payload",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return nil
	}

	// A failed charge drives no transition; the booking stays confirmed and
	// the customer retries payment.
	c.logger.Info("payment failed for booking",
		zap.String("booking_id", payload.BookingID.String()),
		zap.String("reason", payload.Reason),
	)
	return nil
}
