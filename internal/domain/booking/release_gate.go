package booking

import (
	"fmt"
	"time"

	"github.com/yardline/service-rental/internal/domain/insurance"
)

// ReleaseDecision says whether an equipment unit may physically leave the
// yard for a booking, and if not, what is missing. Purely advisory: the
// external release workflow consumes it, nothing here mutates state.
type ReleaseDecision struct {
	CanRelease          bool     `json:"can_release"`
	MissingRequirements []string `json:"missing_requirements,omitempty"`
}

// EvaluateRelease applies the "no proof of insurance, no release" rule.
//
// The booking must have cleared insurance verification (status
// insurance_verified or ready_for_pickup) and at least one attached record
// must be approved, unexpired and compliant for the unit's replacement
// value. When no record qualifies, the decision lists the unmet items from
// the closest candidate so the customer knows what to fix.
func EvaluateRelease(b *Booking, records []*insurance.Record, replacementValueCents int64, now time.Time) ReleaseDecision {
	switch b.Status() {
	case StatusInsuranceVerified, StatusReadyForPickup:
	default:
		return ReleaseDecision{
			CanRelease: false,
			MissingRequirements: []string{
				fmt.Sprintf("booking is not ready for release (status: %s)", b.Status()),
			},
		}
	}

	var best []string
	for _, rec := range records {
		if rec.Status != insurance.StatusApproved {
			continue
		}
		if rec.IsExpired(now) {
			continue
		}
		report := insurance.Evaluate(rec, replacementValueCents, now)
		if report.IsValid {
			return ReleaseDecision{CanRelease: true}
		}
		if best == nil || len(report.Errors) < len(best) {
			best = report.Errors
		}
	}

	if best == nil {
		best = []string{"no approved, unexpired insurance record on file"}
	}
	return ReleaseDecision{CanRelease: false, MissingRequirements: best}
}
