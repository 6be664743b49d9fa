package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/yardline/service-rental/internal/domain/booking"
	equipmentDomain "github.com/yardline/service-rental/internal/domain/equipment"
	insuranceDomain "github.com/yardline/service-rental/internal/domain/insurance"
	"go.uber.org/zap"
)

// SubmitInsuranceRequest carries the structured certificate fields supplied
// by the ingestion collaborator. The service never parses documents.
type SubmitInsuranceRequest struct {
	Provider                    string    `json:"provider"`
	PolicyNumber                string    `json:"policy_number" binding:"required"`
	GeneralLiabilityLimitCents  int64     `json:"general_liability_limit_cents"`
	EquipmentLimitCents         int64     `json:"equipment_limit_cents"`
	DeductibleCents             int64     `json:"deductible_cents"`
	EffectiveDate               time.Time `json:"effective_date" binding:"required"`
	ExpiresAt                   time.Time `json:"expires_at" binding:"required"`
	AdditionalInsuredIncluded   bool      `json:"additional_insured_included"`
	LossPayeeIncluded           bool      `json:"loss_payee_included"`
	WaiverOfSubrogationIncluded bool      `json:"waiver_of_subrogation_included"`
	DocumentURL                 string    `json:"document_url"`
}

// InsuranceRecordDTO is the API representation of a submitted certificate,
// together with its current compliance evaluation.
type InsuranceRecordDTO struct {
	Record     *insuranceDomain.Record          `json:"record"`
	Compliance insuranceDomain.ComplianceReport `json:"compliance"`
}

// InsuranceService handles certificate submission and review.
type InsuranceService struct {
	bookings  bookingDomain.Repository
	equipment equipmentDomain.Repository
	records   insuranceDomain.Repository
	logger    *zap.Logger
}

// NewInsuranceService creates a new InsuranceService.
func NewInsuranceService(
	bookings bookingDomain.Repository,
	equipment equipmentDomain.Repository,
	records insuranceDomain.Repository,
	logger *zap.Logger,
) *InsuranceService {
	return &InsuranceService{
		bookings:  bookings,
		equipment: equipment,
		records:   records,
		logger:    logger,
	}
}

// SubmitRecord attaches a new certificate to a booking in pending status
// and returns it with an immediate compliance evaluation for feedback.
func (s *InsuranceService) SubmitRecord(ctx context.Context, bookingID uuid.UUID, req SubmitInsuranceRequest) (*InsuranceRecordDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	eq, err := s.equipment.FindByID(ctx, bk.EquipmentID())
	if err != nil {
		return nil, err
	}

	rec, err := insuranceDomain.NewRecord(
		bookingID,
		req.Provider,
		req.PolicyNumber,
		req.GeneralLiabilityLimitCents,
		req.EquipmentLimitCents,
		req.DeductibleCents,
		req.EffectiveDate,
		req.ExpiresAt,
		req.AdditionalInsuredIncluded,
		req.LossPayeeIncluded,
		req.WaiverOfSubrogationIncluded,
		req.DocumentURL,
	)
	if err != nil {
		return nil, err
	}

	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("insurance record submitted",
		zap.String("booking_id", bookingID.String()),
		zap.String("policy_number", rec.PolicyNumber),
	)

	report := insuranceDomain.Evaluate(rec, eq.ReplacementValueCents(), time.Now().UTC())
	return &InsuranceRecordDTO{Record: rec, Compliance: report}, nil
}

// ListRecords returns all certificates attached to a booking, each with its
// current compliance evaluation.
func (s *InsuranceService) ListRecords(ctx context.Context, bookingID uuid.UUID) ([]InsuranceRecordDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	eq, err := s.equipment.FindByID(ctx, bk.EquipmentID())
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dtos := make([]InsuranceRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = InsuranceRecordDTO{
			Record:     rec,
			Compliance: insuranceDomain.Evaluate(rec, eq.ReplacementValueCents(), now),
		}
	}
	return dtos, nil
}

// ReviewRecord moves a certificate through its review states (staff).
func (s *InsuranceService) ReviewRecord(ctx context.Context, recordID uuid.UUID, status insuranceDomain.RecordStatus) error {
	if err := s.records.UpdateStatus(ctx, recordID, status); err != nil {
		return err
	}
	s.logger.Info("insurance record reviewed",
		zap.String("record_id", recordID.String()),
		zap.String("status", string(status)),
	)
	return nil
}
