//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yardline/service-rental/internal/application"
	"github.com/yardline/service-rental/internal/domain"
	bookingDomain "github.com/yardline/service-rental/internal/domain/booking"
	rentalEvents "github.com/yardline/service-rental/internal/events"
)

// TestPaymentSucceeded_MarksBookingPaid verifies that when a
// PaymentSucceededEvent is published to the payment topic, the rental
// service picks it up and transitions the confirmed booking to "paid".
func TestPaymentSucceeded_MarksBookingPaid(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	equipmentID := seedEquipment(t, infra.DB)

	// Create a booking and confirm it so it is awaiting payment.
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	dto, err := stack.Service.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
		EquipmentID: equipmentID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 6),
		BookingType: "pickup",
	})
	require.NoError(t, err)
	_, err = stack.Service.UpdateStatus(context.Background(), dto.ID, bookingDomain.StatusConfirmed)
	require.NoError(t, err)

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish PaymentSucceededEvent.
	evt := rentalEvents.PaymentSucceededEvent{
		PaymentID:   uuid.New(),
		BookingID:   dto.ID,
		AmountCents: dto.Breakdown.TotalCents,
		Currency:    "CAD",
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, rentalEvents.TopicPaymentEvents,
		"service-payment", rentalEvents.PaymentSucceeded, evt)

	// Assert: booking transitions to "paid".
	model := waitForBookingStatus(t, infra.DB, dto.ID, "paid", 15*time.Second)
	assert.Equal(t, dto.BookingNumber, model.BookingNumber)

	// Assert: BookingStatusChangedEvent on the booking topic.
	ce := consumeOneEvent(t, infra.KafkaBrokers, rentalEvents.TopicBookingEvents,
		rentalEvents.BookingStatusChanged, 15*time.Second)

	var changed rentalEvents.BookingStatusChangedEvent
	require.NoError(t, ce.ParseData(&changed))
	assert.Equal(t, dto.ID, changed.BookingID)
}

// TestConcurrentCreates_OneWinner verifies the atomic check-and-insert: ten
// parallel creates for the same unit and dates yield exactly one booking.
func TestConcurrentCreates_OneWinner(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	equipmentID := seedEquipment(t, infra.DB)
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	const writers = 10
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stack.Service.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
				EquipmentID: equipmentID,
				StartDate:   start,
				EndDate:     start.AddDate(0, 0, 5),
				BookingType: "pickup",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, domain.IsConflict(err), "losers surface as conflicts, got: %v", err)
	}
	assert.Equal(t, 1, successes, "exactly one writer wins the range")

	var count int64
	require.NoError(t, infra.DB.Table("bookings").Where("equipment_id = ?", equipmentID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestBookingNumbers_SequentialPerYear verifies counter-backed numbering.
func TestBookingNumbers_SequentialPerYear(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	equipmentID := seedEquipment(t, infra.DB)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	first, err := stack.Service.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
		EquipmentID: equipmentID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		BookingType: "pickup",
	})
	require.NoError(t, err)

	second, err := stack.Service.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
		EquipmentID: equipmentID,
		StartDate:   start.AddDate(0, 0, 3),
		EndDate:     start.AddDate(0, 0, 6),
		BookingType: "pickup",
	})
	require.NoError(t, err)

	assert.Equal(t, "RB-2026-001", first.BookingNumber)
	assert.Equal(t, "RB-2026-002", second.BookingNumber)
}
