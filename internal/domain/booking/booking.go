package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/domain"
)

// Address is the delivery destination for delivery-type bookings.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Booking is the aggregate root for the rental booking domain. Rate
// snapshots and the price breakdown are fixed at creation time; the only
// mutations allowed afterwards go through the status state machine.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	customerID    uuid.UUID
	equipmentID   uuid.UUID
	dateRange     DateRange
	bookingType   Type
	status        Status

	rates     RateCard
	breakdown PriceBreakdown

	securityDepositCents int64
	deliveryAddress      *Address

	cancelledAt          *time.Time
	cancellationReason   string
	cancellationFeeCents int64

	notes     string
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=pending. The
// booking number is assigned later, by the repository, inside the same
// transaction that inserts the row.
func NewBooking(
	customerID uuid.UUID,
	equipmentID uuid.UUID,
	dateRange DateRange,
	bookingType Type,
	rates RateCard,
	breakdown PriceBreakdown,
	securityDepositCents int64,
	deliveryAddress *Address,
	notes string,
) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if equipmentID == uuid.Nil {
		return nil, domain.NewValidationError("equipment ID is required")
	}
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}
	if !bookingType.IsValid() {
		return nil, domain.NewValidationError("invalid booking type: " + string(bookingType))
	}
	if bookingType == TypeDelivery && (deliveryAddress == nil || deliveryAddress.Line1 == "") {
		return nil, domain.NewValidationError("delivery address is required for delivery bookings")
	}
	if securityDepositCents < 0 {
		return nil, domain.NewValidationError("security deposit cannot be negative")
	}
	if breakdown.TotalCents != breakdown.SubtotalCents+breakdown.TaxCents+breakdown.FloatFeeCents {
		return nil, domain.NewValidationError("price breakdown does not add up")
	}

	now := time.Now().UTC()
	return &Booking{
		id:                   uuid.New(),
		customerID:           customerID,
		equipmentID:          equipmentID,
		dateRange:            dateRange,
		bookingType:          bookingType,
		status:               StatusPending,
		rates:                rates,
		breakdown:            breakdown,
		securityDepositCents: securityDepositCents,
		deliveryAddress:      deliveryAddress,
		notes:                notes,
		version:              1,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingNumber string,
	customerID uuid.UUID,
	equipmentID uuid.UUID,
	dateRange DateRange,
	bookingType Type,
	status Status,
	rates RateCard,
	breakdown PriceBreakdown,
	securityDepositCents int64,
	deliveryAddress *Address,
	cancelledAt *time.Time,
	cancellationReason string,
	cancellationFeeCents int64,
	notes string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                   id,
		bookingNumber:        bookingNumber,
		customerID:           customerID,
		equipmentID:          equipmentID,
		dateRange:            dateRange,
		bookingType:          bookingType,
		status:               status,
		rates:                rates,
		breakdown:            breakdown,
		securityDepositCents: securityDepositCents,
		deliveryAddress:      deliveryAddress,
		cancelledAt:          cancelledAt,
		cancellationReason:   cancellationReason,
		cancellationFeeCents: cancellationFeeCents,
		notes:                notes,
		version:              version,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number, empty until the
// repository assigns one at insert time.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// CustomerID returns the renting customer's ID.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// EquipmentID returns the booked equipment unit's ID.
func (b *Booking) EquipmentID() uuid.UUID { return b.equipmentID }

// Range returns the half-open rental interval.
func (b *Booking) Range() DateRange { return b.dateRange }

// StartDate returns the rental start instant.
func (b *Booking) StartDate() time.Time { return b.dateRange.Start }

// EndDate returns the rental end instant (exclusive).
func (b *Booking) EndDate() time.Time { return b.dateRange.End }

// BookingType returns delivery or pickup.
func (b *Booking) BookingType() Type { return b.bookingType }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// Rates returns the rate card snapshot taken at creation time.
func (b *Booking) Rates() RateCard { return b.rates }

// Breakdown returns the price breakdown fixed at creation time.
func (b *Booking) Breakdown() PriceBreakdown { return b.breakdown }

// SecurityDepositCents returns the security deposit in cents.
func (b *Booking) SecurityDepositCents() int64 { return b.securityDepositCents }

// DeliveryAddress returns the delivery address, or nil for pickup bookings.
func (b *Booking) DeliveryAddress() *Address { return b.deliveryAddress }

// CancelledAt returns the time the booking was cancelled, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancellationReason returns the cancellation reason.
func (b *Booking) CancellationReason() string { return b.cancellationReason }

// CancellationFeeCents returns the externally supplied cancellation fee.
func (b *Booking) CancellationFeeCents() int64 { return b.cancellationFeeCents }

// Notes returns any additional notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AssignNumber sets the booking number once. The repository calls this with
// the sequence it allocated inside the create transaction.
func (b *Booking) AssignNumber(number string) error {
	if b.bookingNumber != "" {
		return domain.NewValidationError("booking number already assigned")
	}
	if number == "" {
		return domain.NewValidationError("booking number is required")
	}
	b.bookingNumber = number
	return nil
}

// ClearNumber releases an assigned booking number. A transaction rollback
// cannot undo the in-memory assignment, so the repository clears it after a
// failed create to let a retry allocate a fresh one.
func (b *Booking) ClearNumber() {
	b.bookingNumber = ""
}

// TransitionTo moves the booking to the target status if the state machine
// allows the edge. Cancellation must go through Cancel so the reason and
// timestamp are captured.
func (b *Booking) TransitionTo(target Status) error {
	if !target.IsValid() {
		return domain.NewValidationError("invalid booking status: " + string(target))
	}
	if target == StatusCancelled {
		return domain.NewValidationError("use cancel to cancel a booking")
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal
// state. The fee is an external policy input, recorded verbatim.
func (b *Booking) Cancel(reason string, feeCents int64) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	if feeCents < 0 {
		return domain.NewValidationError("cancellation fee cannot be negative")
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancellationReason = reason
	b.cancellationFeeCents = feeCents
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// MarkNoShow transitions a confirmed booking to no-show.
func (b *Booking) MarkNoShow() error {
	if !b.status.CanTransitionTo(StatusNoShow) {
		return domain.NewInvalidStateError(string(b.status), string(StatusNoShow))
	}
	b.status = StatusNoShow
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
