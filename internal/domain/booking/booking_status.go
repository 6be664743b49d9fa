package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending           Status = "pending"
	StatusConfirmed         Status = "confirmed"
	StatusPaid              Status = "paid"
	StatusInsuranceVerified Status = "insurance_verified"
	StatusReadyForPickup    Status = "ready_for_pickup"
	StatusDelivered         Status = "delivered"
	StatusInProgress        Status = "in_progress"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	StatusNoShow            Status = "no_show"
)

// validTransitions defines the state machine for booking status transitions.
// The transition graph is explicit data; nothing depends on declaration order.
var validTransitions = map[Status][]Status{
	StatusPending:           {StatusConfirmed, StatusCancelled},
	StatusConfirmed:         {StatusPaid, StatusCancelled, StatusNoShow},
	StatusPaid:              {StatusInsuranceVerified, StatusCancelled},
	StatusInsuranceVerified: {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup:    {StatusDelivered, StatusCancelled},
	StatusDelivered:         {StatusInProgress, StatusCancelled},
	StatusInProgress:        {StatusCompleted},
	StatusCompleted:         {},
	StatusCancelled:         {},
	StatusNoShow:            {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if the booking can be cancelled from this status.
func (s Status) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// IsActive returns true if a booking in this status occupies equipment
// capacity. Cancelled, completed and no-show bookings do not.
func (s Status) IsActive() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return false
	}
	return s.IsValid()
}

// ActiveStatuses returns every status that occupies equipment capacity.
func ActiveStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusPaid,
		StatusInsuranceVerified,
		StatusReadyForPickup,
		StatusDelivered,
		StatusInProgress,
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
