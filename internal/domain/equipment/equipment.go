package equipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/domain"
)

// Status is the physical availability of an equipment unit. Inventory
// management owns most of these; the booking engine only flips
// available <-> rented.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusRented       Status = "rented"
	StatusMaintenance  Status = "maintenance"
	StatusOutOfService Status = "out_of_service"
	StatusRetired      Status = "retired"
)

// IsValid returns true if the equipment status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance, StatusOutOfService, StatusRetired:
		return true
	}
	return false
}

// IsRentable returns true if new bookings may be taken against the unit.
func (s Status) IsRentable() bool {
	return s == StatusAvailable || s == StatusRented
}

// Equipment is a rentable loader unit. Monetary fields are in cents.
type Equipment struct {
	id                    uuid.UUID
	name                  string
	model                 string
	status                Status
	dailyRateCents        int64
	weeklyRateCents       int64
	monthlyRateCents      int64
	replacementValueCents int64
	createdAt             time.Time
	updatedAt             time.Time
}

// NewEquipment creates a new available equipment unit.
func NewEquipment(name, model string, dailyRateCents, weeklyRateCents, monthlyRateCents, replacementValueCents int64) (*Equipment, error) {
	if name == "" {
		return nil, domain.NewValidationError("equipment name is required")
	}
	if dailyRateCents <= 0 || weeklyRateCents <= 0 || monthlyRateCents <= 0 {
		return nil, domain.NewValidationError("rental rates must be positive")
	}
	if replacementValueCents <= 0 {
		return nil, domain.NewValidationError("replacement value must be positive")
	}

	now := time.Now().UTC()
	return &Equipment{
		id:                    uuid.New(),
		name:                  name,
		model:                 model,
		status:                StatusAvailable,
		dailyRateCents:        dailyRateCents,
		weeklyRateCents:       weeklyRateCents,
		monthlyRateCents:      monthlyRateCents,
		replacementValueCents: replacementValueCents,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// Reconstruct rebuilds an Equipment from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, model string,
	status Status,
	dailyRateCents, weeklyRateCents, monthlyRateCents, replacementValueCents int64,
	createdAt, updatedAt time.Time,
) *Equipment {
	return &Equipment{
		id:                    id,
		name:                  name,
		model:                 model,
		status:                status,
		dailyRateCents:        dailyRateCents,
		weeklyRateCents:       weeklyRateCents,
		monthlyRateCents:      monthlyRateCents,
		replacementValueCents: replacementValueCents,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// ID returns the equipment's unique identifier.
func (e *Equipment) ID() uuid.UUID { return e.id }

// Name returns the unit's display name.
func (e *Equipment) Name() string { return e.name }

// Model returns the manufacturer model designation.
func (e *Equipment) Model() string { return e.model }

// Status returns the current physical status.
func (e *Equipment) Status() Status { return e.status }

// DailyRateCents returns the daily rental rate in cents.
func (e *Equipment) DailyRateCents() int64 { return e.dailyRateCents }

// WeeklyRateCents returns the weekly rental rate in cents.
func (e *Equipment) WeeklyRateCents() int64 { return e.weeklyRateCents }

// MonthlyRateCents returns the monthly rental rate in cents.
func (e *Equipment) MonthlyRateCents() int64 { return e.monthlyRateCents }

// ReplacementValueCents returns the replacement value in cents.
func (e *Equipment) ReplacementValueCents() int64 { return e.replacementValueCents }

// CreatedAt returns the creation timestamp.
func (e *Equipment) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (e *Equipment) UpdatedAt() time.Time { return e.updatedAt }
