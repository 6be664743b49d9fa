package insurance

import (
	"time"

	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/domain"
)

// RecordStatus is the review state of a certificate of insurance.
type RecordStatus string

const (
	StatusPending     RecordStatus = "pending"
	StatusUnderReview RecordStatus = "under_review"
	StatusApproved    RecordStatus = "approved"
	StatusRejected    RecordStatus = "rejected"
	StatusExpired     RecordStatus = "expired"
)

// IsValid returns true if the record status is recognized.
func (s RecordStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Record is a structured certificate of insurance supplied by the
// ingestion collaborator. The engine never parses documents; it only reads
// these fields. Monetary limits are in cents.
type Record struct {
	ID                          uuid.UUID    `json:"id"`
	BookingID                   uuid.UUID    `json:"booking_id"`
	Status                      RecordStatus `json:"status"`
	Provider                    string       `json:"provider"`
	PolicyNumber                string       `json:"policy_number"`
	GeneralLiabilityLimitCents  int64        `json:"general_liability_limit_cents"`
	EquipmentLimitCents         int64        `json:"equipment_limit_cents"`
	DeductibleCents             int64        `json:"deductible_cents"`
	EffectiveDate               time.Time    `json:"effective_date"`
	ExpiresAt                   time.Time    `json:"expires_at"`
	AdditionalInsuredIncluded   bool         `json:"additional_insured_included"`
	LossPayeeIncluded           bool         `json:"loss_payee_included"`
	WaiverOfSubrogationIncluded bool         `json:"waiver_of_subrogation_included"`
	DocumentURL                 string       `json:"document_url,omitempty"`
	CreatedAt                   time.Time    `json:"created_at"`
	UpdatedAt                   time.Time    `json:"updated_at"`
}

// NewRecord builds a pending insurance record for a booking from ingested
// certificate fields.
func NewRecord(
	bookingID uuid.UUID,
	provider string,
	policyNumber string,
	generalLiabilityLimitCents int64,
	equipmentLimitCents int64,
	deductibleCents int64,
	effectiveDate time.Time,
	expiresAt time.Time,
	additionalInsured bool,
	lossPayee bool,
	waiverOfSubrogation bool,
	documentURL string,
) (*Record, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if policyNumber == "" {
		return nil, domain.NewValidationError("policy number is required")
	}
	if generalLiabilityLimitCents < 0 || equipmentLimitCents < 0 || deductibleCents < 0 {
		return nil, domain.NewValidationError("insurance limits cannot be negative")
	}
	if effectiveDate.IsZero() || expiresAt.IsZero() {
		return nil, domain.NewValidationError("effective and expiry dates are required")
	}
	if !expiresAt.After(effectiveDate) {
		return nil, domain.NewValidationError("expiry must be after effective date")
	}

	now := time.Now().UTC()
	return &Record{
		ID:                          uuid.New(),
		BookingID:                   bookingID,
		Status:                      StatusPending,
		Provider:                    provider,
		PolicyNumber:                policyNumber,
		GeneralLiabilityLimitCents:  generalLiabilityLimitCents,
		EquipmentLimitCents:         equipmentLimitCents,
		DeductibleCents:             deductibleCents,
		EffectiveDate:               effectiveDate,
		ExpiresAt:                   expiresAt,
		AdditionalInsuredIncluded:   additionalInsured,
		LossPayeeIncluded:           lossPayee,
		WaiverOfSubrogationIncluded: waiverOfSubrogation,
		DocumentURL:                 documentURL,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}, nil
}

// IsExpired reports whether the policy window has passed at the given time.
func (r *Record) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
