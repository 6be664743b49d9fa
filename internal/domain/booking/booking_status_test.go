package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPaid, false},
		{StatusConfirmed, StatusPaid, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusInsuranceVerified, false},
		{StatusPaid, StatusInsuranceVerified, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusNoShow, false},
		{StatusInsuranceVerified, StatusReadyForPickup, true},
		{StatusInsuranceVerified, StatusCancelled, true},
		{StatusReadyForPickup, StatusDelivered, true},
		{StatusReadyForPickup, StatusCancelled, true},
		{StatusDelivered, StatusInProgress, true},
		{StatusDelivered, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusNoShow, StatusConfirmed, false},
		// No skipping steps.
		{StatusPending, StatusDelivered, false},
		{StatusPaid, StatusReadyForPickup, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestStatusIsActive(t *testing.T) {
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusNoShow.IsActive())
	assert.False(t, Status("bogus").IsActive())

	for _, s := range ActiveStatuses() {
		assert.True(t, s.IsActive(), "status %s", s)
	}
	// Active + inactive covers the whole machine.
	assert.Len(t, ActiveStatuses(), len(validTransitions)-3)
}

func TestStatusCanBeCancelled(t *testing.T) {
	assert.True(t, StatusPending.CanBeCancelled())
	assert.True(t, StatusDelivered.CanBeCancelled())
	assert.False(t, StatusInProgress.CanBeCancelled())
	assert.False(t, StatusCompleted.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
	assert.False(t, StatusNoShow.CanBeCancelled())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("insurance_verified")
	assert.NoError(t, err)
	assert.Equal(t, StatusInsuranceVerified, s)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)
}
