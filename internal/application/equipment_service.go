package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	equipmentDomain "github.com/yardline/service-rental/internal/domain/equipment"
	"go.uber.org/zap"
)

// CreateEquipmentRequest holds the data to register a new equipment unit.
type CreateEquipmentRequest struct {
	Name                  string `json:"name" binding:"required"`
	Model                 string `json:"model"`
	DailyRateCents        int64  `json:"daily_rate_cents" binding:"required"`
	WeeklyRateCents       int64  `json:"weekly_rate_cents" binding:"required"`
	MonthlyRateCents      int64  `json:"monthly_rate_cents" binding:"required"`
	ReplacementValueCents int64  `json:"replacement_value_cents" binding:"required"`
}

// EquipmentDTO is the API response representation of an equipment unit.
type EquipmentDTO struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Model                 string    `json:"model"`
	Status                string    `json:"status"`
	DailyRateCents        int64     `json:"daily_rate_cents"`
	WeeklyRateCents       int64     `json:"weekly_rate_cents"`
	MonthlyRateCents      int64     `json:"monthly_rate_cents"`
	ReplacementValueCents int64     `json:"replacement_value_cents"`
	CreatedAt             time.Time `json:"created_at"`
}

// EquipmentService handles the equipment catalog use cases.
type EquipmentService struct {
	repo   equipmentDomain.Repository
	logger *zap.Logger
}

// NewEquipmentService creates a new EquipmentService.
func NewEquipmentService(repo equipmentDomain.Repository, logger *zap.Logger) *EquipmentService {
	return &EquipmentService{repo: repo, logger: logger}
}

// CreateEquipment registers a new unit in the catalog (staff).
func (s *EquipmentService) CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (*EquipmentDTO, error) {
	eq, err := equipmentDomain.NewEquipment(
		req.Name,
		req.Model,
		req.DailyRateCents,
		req.WeeklyRateCents,
		req.MonthlyRateCents,
		req.ReplacementValueCents,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, eq); err != nil {
		return nil, err
	}

	s.logger.Info("equipment registered",
		zap.String("equipment_id", eq.ID().String()),
		zap.String("name", eq.Name()),
	)

	result := toEquipmentDTO(eq)
	return &result, nil
}

// GetEquipment retrieves a single unit by ID.
func (s *EquipmentService) GetEquipment(ctx context.Context, id uuid.UUID) (*EquipmentDTO, error) {
	eq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toEquipmentDTO(eq)
	return &result, nil
}

// ListEquipment returns a paginated view of the catalog.
func (s *EquipmentService) ListEquipment(ctx context.Context, page, limit int) ([]EquipmentDTO, int64, error) {
	units, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]EquipmentDTO, len(units))
	for i, eq := range units {
		dtos[i] = toEquipmentDTO(eq)
	}
	return dtos, total, nil
}

func toEquipmentDTO(eq *equipmentDomain.Equipment) EquipmentDTO {
	return EquipmentDTO{
		ID:                    eq.ID(),
		Name:                  eq.Name(),
		Model:                 eq.Model(),
		Status:                string(eq.Status()),
		DailyRateCents:        eq.DailyRateCents(),
		WeeklyRateCents:       eq.WeeklyRateCents(),
		MonthlyRateCents:      eq.MonthlyRateCents(),
		ReplacementValueCents: eq.ReplacementValueCents(),
		CreatedAt:             eq.CreatedAt(),
	}
}
