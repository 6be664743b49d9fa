package equipment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for equipment units.
type Repository interface {
	// FindByID retrieves an equipment unit by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Equipment, error)

	// List retrieves equipment units with pagination.
	List(ctx context.Context, page, limit int) ([]*Equipment, int64, error)

	// Save persists a new equipment unit.
	Save(ctx context.Context, eq *Equipment) error

	// TransitionStatus conditionally flips the unit's status from one value
	// to another. It returns false without error when the unit was not in
	// the expected from-status, so callers can treat the flip as a no-op.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
}
