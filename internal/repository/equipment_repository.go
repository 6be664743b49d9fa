package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/domain"
	equipmentDomain "github.com/yardline/service-rental/internal/domain/equipment"
	"gorm.io/gorm"
)

// EquipmentModel is the GORM model for the equipment table.
type EquipmentModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"not null;size:200"`
	Model                 string    `gorm:"size:200"`
	Status                string    `gorm:"not null;size:30;index"`
	DailyRateCents        int64     `gorm:"not null"`
	WeeklyRateCents       int64     `gorm:"not null"`
	MonthlyRateCents      int64     `gorm:"not null"`
	ReplacementValueCents int64     `gorm:"not null"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (EquipmentModel) TableName() string {
	return "equipment"
}

// GormEquipmentRepository is the GORM-based implementation of the equipment
// repository.
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GormEquipmentRepository.
func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

// FindByID retrieves an equipment unit by its unique identifier.
func (r *GormEquipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*equipmentDomain.Equipment, error) {
	var model EquipmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("equipment", id.String())
		}
		return nil, fmt.Errorf("failed to find equipment by ID: %w", err)
	}
	return toDomainEquipment(&model), nil
}

// List retrieves equipment units with pagination.
func (r *GormEquipmentRepository) List(ctx context.Context, page, limit int) ([]*equipmentDomain.Equipment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&EquipmentModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	var models []EquipmentModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}

	units := make([]*equipmentDomain.Equipment, len(models))
	for i, m := range models {
		units[i] = toDomainEquipment(&m)
	}
	return units, total, nil
}

// Save persists a new or updated equipment unit.
func (r *GormEquipmentRepository) Save(ctx context.Context, eq *equipmentDomain.Equipment) error {
	model := toEquipmentModel(eq)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save equipment: %w", err)
	}
	return nil
}

// TransitionStatus conditionally flips the equipment status. It reports
// whether a row was actually updated; a zero-row update is a legal no-op
// (the unit was not in the expected state).
func (r *GormEquipmentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to equipmentDomain.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&EquipmentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to transition equipment status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func toEquipmentModel(eq *equipmentDomain.Equipment) *EquipmentModel {
	return &EquipmentModel{
		ID:                    eq.ID(),
		Name:                  eq.Name(),
		Model:                 eq.Model(),
		Status:                string(eq.Status()),
		DailyRateCents:        eq.DailyRateCents(),
		WeeklyRateCents:       eq.WeeklyRateCents(),
		MonthlyRateCents:      eq.MonthlyRateCents(),
		ReplacementValueCents: eq.ReplacementValueCents(),
		CreatedAt:             eq.CreatedAt(),
		UpdatedAt:             eq.UpdatedAt(),
	}
}

func toDomainEquipment(m *EquipmentModel) *equipmentDomain.Equipment {
	return equipmentDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Model,
		equipmentDomain.Status(m.Status),
		m.DailyRateCents,
		m.WeeklyRateCents,
		m.MonthlyRateCents,
		m.ReplacementValueCents,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
