package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/domain"
	bookingDomain "github.com/yardline/service-rental/internal/domain/booking"
	equipmentDomain "github.com/yardline/service-rental/internal/domain/equipment"
	insuranceDomain "github.com/yardline/service-rental/internal/domain/insurance"
	"github.com/yardline/service-rental/internal/events"
	"github.com/yardline/service-rental/internal/kafka"
	"go.uber.org/zap"
)

// createMaxAttempts bounds the transparent retries of the atomic create
// path on serialization failures before surfacing a conflict.
const createMaxAttempts = 3

// Caller identifies the authenticated requester on operations that enforce
// ownership. Privileged callers (staff, admin) may act on any booking.
type Caller struct {
	UserID     uuid.UUID
	Privileged bool
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	EquipmentID          uuid.UUID              `json:"equipment_id" binding:"required"`
	StartDate            time.Time              `json:"start_date" binding:"required"`
	EndDate              time.Time              `json:"end_date" binding:"required"`
	BookingType          string                 `json:"booking_type" binding:"required"`
	SecurityDepositCents int64                  `json:"security_deposit_cents"`
	DeliveryAddress      *bookingDomain.Address `json:"delivery_address"`
	Notes                string                 `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                   uuid.UUID                    `json:"id"`
	BookingNumber        string                       `json:"booking_number"`
	CustomerID           uuid.UUID                    `json:"customer_id"`
	EquipmentID          uuid.UUID                    `json:"equipment_id"`
	StartDate            time.Time                    `json:"start_date"`
	EndDate              time.Time                    `json:"end_date"`
	BookingType          string                       `json:"booking_type"`
	Status               string                       `json:"status"`
	Rates                bookingDomain.RateCard       `json:"rates"`
	Breakdown            bookingDomain.PriceBreakdown `json:"breakdown"`
	SecurityDepositCents int64                        `json:"security_deposit_cents"`
	DeliveryAddress      *bookingDomain.Address       `json:"delivery_address,omitempty"`
	CancelledAt          *time.Time                   `json:"cancelled_at,omitempty"`
	CancellationReason   string                       `json:"cancellation_reason,omitempty"`
	CancellationFeeCents int64                        `json:"cancellation_fee_cents,omitempty"`
	Notes                string                       `json:"notes,omitempty"`
	Version              int64                        `json:"version"`
	CreatedAt            time.Time                    `json:"created_at"`
	UpdatedAt            time.Time                    `json:"updated_at"`
}

// BookingService is the application service orchestrating the booking
// lifecycle: creation, status transitions, cancellation and release checks.
type BookingService struct {
	bookings  bookingDomain.Repository
	equipment equipmentDomain.Repository
	insurance insuranceDomain.Repository
	pricing   bookingDomain.PricingStrategy
	producer  *kafka.Producer
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	equipment equipmentDomain.Repository,
	insurance insuranceDomain.Repository,
	pricing bookingDomain.PricingStrategy,
	producer *kafka.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		equipment: equipment,
		insurance: insurance,
		pricing:   pricing,
		producer:  producer,
		logger:    logger,
	}
}

// CreateBooking creates a booking for the customer after pricing and
// availability succeed. The repository's create is atomic per equipment
// unit; serialization failures are retried transparently before surfacing
// as a conflict.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	eq, err := s.equipment.FindByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if !eq.Status().IsRentable() {
		return nil, domain.NewConflictError(fmt.Sprintf("equipment %s is not rentable (status: %s)", eq.ID(), eq.Status()))
	}

	dateRange := bookingDomain.DateRange{Start: req.StartDate.UTC(), End: req.EndDate.UTC()}
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}
	bookingType := bookingDomain.Type(req.BookingType)

	rates := bookingDomain.RateCard{
		DailyRateCents:   eq.DailyRateCents(),
		WeeklyRateCents:  eq.WeeklyRateCents(),
		MonthlyRateCents: eq.MonthlyRateCents(),
	}
	breakdown, err := s.pricing.Calculate(rates, dateRange.Start, dateRange.End, bookingType)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(
		customerID,
		eq.ID(),
		dateRange,
		bookingType,
		rates,
		breakdown,
		req.SecurityDepositCents,
		req.DeliveryAddress,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.createWithRetry(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingCreated(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// createWithRetry drives the repository's atomic create, retrying bounded
// times with backoff when concurrent writers collide.
func (s *BookingService) createWithRetry(ctx context.Context, bk *bookingDomain.Booking) error {
	var lastErr error
	for attempt := 1; attempt <= createMaxAttempts; attempt++ {
		lastErr = s.bookings.Create(ctx, bk)
		if lastErr == nil {
			return nil
		}
		if !domain.IsConcurrency(lastErr) {
			return lastErr
		}

		s.logger.Warn("booking create hit concurrency conflict, retrying",
			zap.String("equipment_id", bk.EquipmentID().String()),
			zap.Int("attempt", attempt),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return domain.NewConflictError("equipment is being booked by another request, please retry")
}

// CheckAvailability reports whether the equipment unit is free for the
// candidate range.
func (s *BookingService) CheckAvailability(ctx context.Context, equipmentID uuid.UUID, start, end time.Time) (bool, error) {
	dateRange := bookingDomain.DateRange{Start: start.UTC(), End: end.UTC()}
	if err := dateRange.Validate(); err != nil {
		return false, err
	}
	if _, err := s.equipment.FindByID(ctx, equipmentID); err != nil {
		return false, err
	}

	active, err := s.bookings.FindActiveByEquipmentID(ctx, equipmentID)
	if err != nil {
		return false, err
	}
	return bookingDomain.IsAvailable(dateRange, active), nil
}

// CalculatePricing returns the price breakdown for renting the equipment
// over the range, without creating anything.
func (s *BookingService) CalculatePricing(ctx context.Context, equipmentID uuid.UUID, start, end time.Time, bookingType string) (*bookingDomain.PriceBreakdown, error) {
	eq, err := s.equipment.FindByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	rates := bookingDomain.RateCard{
		DailyRateCents:   eq.DailyRateCents(),
		WeeklyRateCents:  eq.WeeklyRateCents(),
		MonthlyRateCents: eq.MonthlyRateCents(),
	}
	breakdown, err := s.pricing.Calculate(rates, start.UTC(), end.UTC(), bookingDomain.Type(bookingType))
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// UpdateStatus applies a status transition to the booking. Moving into
// insurance_verified additionally requires a compliant certificate on file.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, target bookingDomain.Status) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := bk.Status()

	if target == bookingDomain.StatusInsuranceVerified && from == bookingDomain.StatusPaid {
		if err := s.verifyInsurance(ctx, bk); err != nil {
			return nil, err
		}
	}

	if err := bk.TransitionTo(target); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.applyEquipmentSideEffects(ctx, bk, target)
	s.publishStatusChanged(ctx, bk, from, target)

	result := toBookingDTO(bk)
	return &result, nil
}

// verifyInsurance runs the compliance evaluator over the booking's records
// and fails with the itemized coverage gaps when none passes.
func (s *BookingService) verifyInsurance(ctx context.Context, bk *bookingDomain.Booking) error {
	eq, err := s.equipment.FindByID(ctx, bk.EquipmentID())
	if err != nil {
		return err
	}
	records, err := s.insurance.FindByBookingID(ctx, bk.ID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var best []string
	for _, rec := range records {
		if rec.IsExpired(now) {
			continue
		}
		report := insuranceDomain.Evaluate(rec, eq.ReplacementValueCents(), now)
		if report.IsValid {
			return nil
		}
		if best == nil || len(report.Errors) < len(best) {
			best = report.Errors
		}
	}

	if best == nil {
		best = []string{"no unexpired insurance record on file"}
	}
	return domain.NewInsufficientCoverageError(best)
}

// Cancel cancels a non-terminal booking on behalf of its owner or a
// privileged caller. The cancellation fee is an external policy input
// recorded as supplied.
func (s *BookingService) Cancel(ctx context.Context, bookingID uuid.UUID, caller Caller, reason string, feeCents int64) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.Privileged && bk.CustomerID() != caller.UserID {
		return nil, domain.NewForbiddenError("booking belongs to another customer")
	}
	from := bk.Status()

	if err := bk.Cancel(reason, feeCents); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	// Only a delivered rental has the unit out of the yard. Cancelling a
	// booking earlier in the lifecycle must not free a unit some other
	// booking currently has in the field.
	if from == bookingDomain.StatusDelivered {
		s.releaseEquipmentIfRented(ctx, bk.EquipmentID())
	}

	evt := events.BookingCancelledEvent{
		BookingID:            bk.ID(),
		BookingNumber:        bk.BookingNumber(),
		Reason:               reason,
		CancellationFeeCents: feeCents,
		OccurredAt:           time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, evt)

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from_status", string(from)),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// CanReleaseEquipment applies the release gate for the booking: "no proof
// of insurance, no release". Advisory only.
func (s *BookingService) CanReleaseEquipment(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.ReleaseDecision, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	eq, err := s.equipment.FindByID(ctx, bk.EquipmentID())
	if err != nil {
		return nil, err
	}
	records, err := s.insurance.FindByBookingID(ctx, bk.ID())
	if err != nil {
		return nil, err
	}

	decision := bookingDomain.EvaluateRelease(bk, records, eq.ReplacementValueCents(), time.Now().UTC())
	return &decision, nil
}

// HandlePaymentSucceeded consumes the payment collaborator's fact and moves
// the booking from confirmed to paid. Idempotent: an already-paid booking
// is left alone.
func (s *BookingService) HandlePaymentSucceeded(ctx context.Context, bookingID uuid.UUID, amountCents int64) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if bk.Status() != bookingDomain.StatusConfirmed {
		s.logger.Info("ignoring payment for booking not awaiting payment",
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(bk.Status())),
		)
		return nil
	}
	if amountCents != bk.Breakdown().TotalCents {
		s.logger.Warn("payment amount does not match booking total",
			zap.String("booking_id", bookingID.String()),
			zap.Int64("paid_cents", amountCents),
			zap.Int64("total_cents", bk.Breakdown().TotalCents),
		)
	}

	_, err = s.UpdateStatus(ctx, bookingID, bookingDomain.StatusPaid)
	return err
}

// GetBooking retrieves a single booking by ID, visible only to its owner
// and privileged callers.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, caller Caller) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.Privileged && bk.CustomerID() != caller.UserID {
		return nil, domain.NewForbiddenError("booking belongs to another customer")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetCustomerBookings retrieves paginated bookings for a customer.
func (s *BookingService) GetCustomerBookings(ctx context.Context, customerID uuid.UUID, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.FindByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// applyEquipmentSideEffects flips the unit between available and rented as
// the booking crosses hand-off boundaries. The flip is conditional in the
// repository, so a unit some other booking already moved stays untouched.
func (s *BookingService) applyEquipmentSideEffects(ctx context.Context, bk *bookingDomain.Booking, target bookingDomain.Status) {
	switch target {
	case bookingDomain.StatusDelivered:
		changed, err := s.equipment.TransitionStatus(ctx, bk.EquipmentID(), equipmentDomain.StatusAvailable, equipmentDomain.StatusRented)
		if err != nil {
			s.logger.Error("failed to mark equipment rented",
				zap.String("equipment_id", bk.EquipmentID().String()), zap.Error(err))
		} else if changed {
			s.logger.Info("equipment marked rented", zap.String("equipment_id", bk.EquipmentID().String()))
		}
	case bookingDomain.StatusCompleted:
		// A no-show never reaches hand-off (it only follows confirmed), so
		// completion is the sole transition that returns a unit to the yard.
		s.releaseEquipmentIfRented(ctx, bk.EquipmentID())
	}
}

func (s *BookingService) releaseEquipmentIfRented(ctx context.Context, equipmentID uuid.UUID) {
	changed, err := s.equipment.TransitionStatus(ctx, equipmentID, equipmentDomain.StatusRented, equipmentDomain.StatusAvailable)
	if err != nil {
		s.logger.Error("failed to mark equipment available",
			zap.String("equipment_id", equipmentID.String()), zap.Error(err))
		return
	}
	if changed {
		s.logger.Info("equipment marked available", zap.String("equipment_id", equipmentID.String()))
	}
}

func (s *BookingService) publishBookingCreated(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CustomerID:    bk.CustomerID(),
		EquipmentID:   bk.EquipmentID(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		BookingType:   string(bk.BookingType()),
		TotalCents:    bk.Breakdown().TotalCents,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, evt)
}

func (s *BookingService) publishStatusChanged(ctx context.Context, bk *bookingDomain.Booking, from, to bookingDomain.Status) {
	evt := events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		FromStatus:    string(from),
		ToStatus:      string(to),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusChanged, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                   bk.ID(),
		BookingNumber:        bk.BookingNumber(),
		CustomerID:           bk.CustomerID(),
		EquipmentID:          bk.EquipmentID(),
		StartDate:            bk.StartDate(),
		EndDate:              bk.EndDate(),
		BookingType:          string(bk.BookingType()),
		Status:               string(bk.Status()),
		Rates:                bk.Rates(),
		Breakdown:            bk.Breakdown(),
		SecurityDepositCents: bk.SecurityDepositCents(),
		DeliveryAddress:      bk.DeliveryAddress(),
		CancelledAt:          bk.CancelledAt(),
		CancellationReason:   bk.CancellationReason(),
		CancellationFeeCents: bk.CancellationFeeCents(),
		Notes:                bk.Notes(),
		Version:              bk.Version(),
		CreatedAt:            bk.CreatedAt(),
		UpdatedAt:            bk.UpdatedAt(),
	}
}
