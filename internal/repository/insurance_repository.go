package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/domain"
	insuranceDomain "github.com/yardline/service-rental/internal/domain/insurance"
	"gorm.io/gorm"
)

// InsuranceRecordModel is the GORM model for the insurance_records table.
type InsuranceRecordModel struct {
	ID                          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID                   uuid.UUID `gorm:"type:uuid;index;not null"`
	Status                      string    `gorm:"not null;size:20"`
	Provider                    string    `gorm:"size:200"`
	PolicyNumber                string    `gorm:"not null;size:100"`
	GeneralLiabilityLimitCents  int64     `gorm:"not null"`
	EquipmentLimitCents         int64     `gorm:"not null"`
	DeductibleCents             int64     `gorm:"not null"`
	EffectiveDate               time.Time `gorm:"not null"`
	ExpiresAt                   time.Time `gorm:"not null"`
	AdditionalInsuredIncluded   bool      `gorm:"not null;default:false"`
	LossPayeeIncluded           bool      `gorm:"not null;default:false"`
	WaiverOfSubrogationIncluded bool      `gorm:"not null;default:false"`
	DocumentURL                 string    `gorm:"size:500"`
	CreatedAt                   time.Time `gorm:"not null"`
	UpdatedAt                   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (InsuranceRecordModel) TableName() string {
	return "insurance_records"
}

// GormInsuranceRepository is the GORM-based implementation of the insurance
// record repository.
type GormInsuranceRepository struct {
	db *gorm.DB
}

// NewGormInsuranceRepository creates a new GormInsuranceRepository.
func NewGormInsuranceRepository(db *gorm.DB) *GormInsuranceRepository {
	return &GormInsuranceRepository{db: db}
}

// FindByID retrieves an insurance record by its unique identifier.
func (r *GormInsuranceRepository) FindByID(ctx context.Context, id uuid.UUID) (*insuranceDomain.Record, error) {
	var model InsuranceRecordModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("insurance record", id.String())
		}
		return nil, fmt.Errorf("failed to find insurance record by ID: %w", err)
	}
	return toDomainRecord(&model), nil
}

// FindByBookingID retrieves all insurance records attached to a booking,
// newest first.
func (r *GormInsuranceRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*insuranceDomain.Record, error) {
	var models []InsuranceRecordModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find insurance records: %w", err)
	}

	records := make([]*insuranceDomain.Record, len(models))
	for i, m := range models {
		records[i] = toDomainRecord(&m)
	}
	return records, nil
}

// Save persists a new insurance record.
func (r *GormInsuranceRepository) Save(ctx context.Context, rec *insuranceDomain.Record) error {
	if err := r.db.WithContext(ctx).Create(toRecordModel(rec)).Error; err != nil {
		return fmt.Errorf("failed to save insurance record: %w", err)
	}
	return nil
}

// UpdateStatus moves a record through its review states.
func (r *GormInsuranceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status insuranceDomain.RecordStatus) error {
	result := r.db.WithContext(ctx).
		Model(&InsuranceRecordModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update insurance record status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("insurance record", id.String())
	}
	return nil
}

func toRecordModel(rec *insuranceDomain.Record) *InsuranceRecordModel {
	return &InsuranceRecordModel{
		ID:                          rec.ID,
		BookingID:                   rec.BookingID,
		Status:                      string(rec.Status),
		Provider:                    rec.Provider,
		PolicyNumber:                rec.PolicyNumber,
		GeneralLiabilityLimitCents:  rec.GeneralLiabilityLimitCents,
		EquipmentLimitCents:         rec.EquipmentLimitCents,
		DeductibleCents:             rec.DeductibleCents,
		EffectiveDate:               rec.EffectiveDate,
		ExpiresAt:                   rec.ExpiresAt,
		AdditionalInsuredIncluded:   rec.AdditionalInsuredIncluded,
		LossPayeeIncluded:           rec.LossPayeeIncluded,
		WaiverOfSubrogationIncluded: rec.WaiverOfSubrogationIncluded,
		DocumentURL:                 rec.DocumentURL,
		CreatedAt:                   rec.CreatedAt,
		UpdatedAt:                   rec.UpdatedAt,
	}
}

func toDomainRecord(m *InsuranceRecordModel) *insuranceDomain.Record {
	return &insuranceDomain.Record{
		ID:                          m.ID,
		BookingID:                   m.BookingID,
		Status:                      insuranceDomain.RecordStatus(m.Status),
		Provider:                    m.Provider,
		PolicyNumber:                m.PolicyNumber,
		GeneralLiabilityLimitCents:  m.GeneralLiabilityLimitCents,
		EquipmentLimitCents:         m.EquipmentLimitCents,
		DeductibleCents:             m.DeductibleCents,
		EffectiveDate:               m.EffectiveDate,
		ExpiresAt:                   m.ExpiresAt,
		AdditionalInsuredIncluded:   m.AdditionalInsuredIncluded,
		LossPayeeIncluded:           m.LossPayeeIncluded,
		WaiverOfSubrogationIncluded: m.WaiverOfSubrogationIncluded,
		DocumentURL:                 m.DocumentURL,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
}
