package insurance

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for insurance records.
type Repository interface {
	// FindByID retrieves a record by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// FindByBookingID retrieves all records attached to a booking.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Record, error)

	// Save persists a new record.
	Save(ctx context.Context, record *Record) error

	// UpdateStatus moves a record through its review states.
	UpdateStatus(ctx context.Context, id uuid.UUID, status RecordStatus) error
}
