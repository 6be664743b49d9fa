package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByCustomerID retrieves bookings belonging to a customer with pagination.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindActiveByEquipmentID retrieves all active-status bookings for an
	// equipment unit, for availability diagnostics.
	FindActiveByEquipmentID(ctx context.Context, equipmentID uuid.UUID) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Create atomically persists a new booking: within one transaction it
	// locks the equipment row, re-checks the candidate range against active
	// bookings, allocates the booking number from the per-year counter and
	// inserts. Returns a conflict error when the range is taken and a
	// concurrency error on serialization failures (safe to retry).
	Create(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic
	// locking; a stale version surfaces as a concurrency error.
	Update(ctx context.Context, b *Booking) error
}
