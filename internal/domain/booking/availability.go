package booking

import (
	"time"

	"github.com/yardline/service-rental/internal/domain"
)

// DateRange is a half-open rental interval [Start, End). The end instant is
// excluded, so a booking ending exactly when another starts does not
// conflict — back-to-back rentals are legal.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate returns a validation error unless End is strictly after Start.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return domain.NewValidationError("start and end dates are required")
	}
	if !r.End.After(r.Start) {
		return domain.NewValidationError("end date must be after start date")
	}
	return nil
}

// Overlaps reports whether two half-open ranges conflict:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// FindConflicts returns the subset of existing bookings whose range overlaps
// the candidate range. Bookings in non-active statuses (cancelled,
// completed, no-show) never conflict.
func FindConflicts(candidate DateRange, existing []*Booking) []*Booking {
	var conflicts []*Booking
	for _, b := range existing {
		if !b.Status().IsActive() {
			continue
		}
		if candidate.Overlaps(b.Range()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// IsAvailable reports whether the candidate range is free of conflicts
// against the given bookings. This read-side check alone is not sufficient
// under concurrency; the repository re-checks inside the create transaction
// while holding the equipment row lock.
func IsAvailable(candidate DateRange, existing []*Booking) bool {
	return len(FindConflicts(candidate, existing)) == 0
}
