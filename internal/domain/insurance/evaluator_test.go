package insurance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const replacementValueCents int64 = 8_500_000

func baseRecord(t *testing.T, now time.Time) *Record {
	t.Helper()
	rec, err := NewRecord(
		uuid.New(),
		"Intact",
		"POL-1001",
		MinGeneralLiabilityCents,
		replacementValueCents,
		250_000,
		now.AddDate(0, -1, 0),
		now.AddDate(1, 0, 0),
		true, true, true,
		"https://docs.example.com/coi/1001.pdf",
	)
	require.NoError(t, err)
	return rec
}

func TestEvaluate_CompliantRecord(t *testing.T) {
	now := time.Now().UTC()
	report := Evaluate(baseRecord(t, now), replacementValueCents, now)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestEvaluate_GeneralLiabilityBelowMinimum(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.GeneralLiabilityLimitCents = MinGeneralLiabilityCents - 1

	report := Evaluate(rec, replacementValueCents, now)
	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "general liability limit")
}

func TestEvaluate_EquipmentCoverageBelowReplacementValue(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.EquipmentLimitCents = replacementValueCents - 1

	report := Evaluate(rec, replacementValueCents, now)
	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "replacement value")
}

func TestEvaluate_MissingEndorsements(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.AdditionalInsuredIncluded = false
	rec.LossPayeeIncluded = false
	rec.WaiverOfSubrogationIncluded = false

	report := Evaluate(rec, replacementValueCents, now)
	assert.False(t, report.IsValid)
	assert.Len(t, report.Errors, 3, "each missing endorsement is itemized")
}

func TestEvaluate_ExpiredPolicyIsHardError(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.ExpiresAt = now.AddDate(0, 0, -1)

	report := Evaluate(rec, replacementValueCents, now)
	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "expired")
}

func TestEvaluate_ExpiryInstantIsExpired(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.ExpiresAt = now

	report := Evaluate(rec, replacementValueCents, now)
	assert.False(t, report.IsValid)
}

func TestEvaluate_NotYetEffectiveIsWarningOnly(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.EffectiveDate = now.AddDate(0, 0, 7)

	report := Evaluate(rec, replacementValueCents, now)
	assert.True(t, report.IsValid, "a future effective date does not invalidate the record")
	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "not yet effective")
}

func TestEvaluate_CollectsAllErrors(t *testing.T) {
	now := time.Now().UTC()
	rec := baseRecord(t, now)
	rec.GeneralLiabilityLimitCents = 50_000_000
	rec.EquipmentLimitCents = 1_000_000
	rec.LossPayeeIncluded = false
	rec.ExpiresAt = now.AddDate(0, 0, -1)

	report := Evaluate(rec, replacementValueCents, now)
	assert.False(t, report.IsValid)
	assert.Len(t, report.Errors, 4)
}

func TestNewRecord_Validation(t *testing.T) {
	now := time.Now().UTC()

	t.Run("missing booking ID", func(t *testing.T) {
		_, err := NewRecord(uuid.Nil, "Intact", "POL-1", 1, 1, 0,
			now, now.AddDate(1, 0, 0), true, true, true, "")
		assert.Error(t, err)
	})
	t.Run("missing policy number", func(t *testing.T) {
		_, err := NewRecord(uuid.New(), "Intact", "", 1, 1, 0,
			now, now.AddDate(1, 0, 0), true, true, true, "")
		assert.Error(t, err)
	})
	t.Run("expiry before effective", func(t *testing.T) {
		_, err := NewRecord(uuid.New(), "Intact", "POL-1", 1, 1, 0,
			now, now.AddDate(0, 0, -1), true, true, true, "")
		assert.Error(t, err)
	})
	t.Run("negative limits", func(t *testing.T) {
		_, err := NewRecord(uuid.New(), "Intact", "POL-1", -1, 1, 0,
			now, now.AddDate(1, 0, 0), true, true, true, "")
		assert.Error(t, err)
	})
}
