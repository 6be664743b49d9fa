package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yardline/service-rental/internal/domain"
	bookingDomain "github.com/yardline/service-rental/internal/domain/booking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber        string          `gorm:"uniqueIndex;not null;size:20"`
	CustomerID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	EquipmentID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	StartDate            time.Time       `gorm:"not null;index"`
	EndDate              time.Time       `gorm:"not null"`
	BookingType          string          `gorm:"not null;size:20"`
	Status               string          `gorm:"not null;size:30;index"`
	DailyRateCents       int64           `gorm:"not null"`
	WeeklyRateCents      int64           `gorm:"not null"`
	MonthlyRateCents     int64           `gorm:"not null"`
	RentalDays           int             `gorm:"not null"`
	SubtotalCents        int64           `gorm:"not null"`
	TaxCents             int64           `gorm:"not null"`
	FloatFeeCents        int64           `gorm:"not null"`
	TotalCents           int64           `gorm:"not null"`
	SecurityDepositCents int64           `gorm:"not null;default:0"`
	DeliveryAddress      json.RawMessage `gorm:"type:jsonb"`
	CancelledAt          *time.Time      `gorm:""`
	CancellationReason   string          `gorm:"size:500"`
	CancellationFeeCents int64           `gorm:"not null;default:0"`
	Notes                string          `gorm:"size:1000"`
	Version              int64           `gorm:"not null;default:1"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingCounterModel backs the atomic per-(entity, year) booking number
// sequence.
type BookingCounterModel struct {
	EntityType string `gorm:"primaryKey;size:20"`
	Year       int    `gorm:"primaryKey"`
	Counter    int64  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingCounterModel) TableName() string {
	return "booking_counters"
}

// inactiveStatuses are the statuses that do not occupy equipment capacity.
var inactiveStatuses = []string{
	string(bookingDomain.StatusCancelled),
	string(bookingDomain.StatusCompleted),
	string(bookingDomain.StatusNoShow),
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByCustomerID retrieves bookings for a customer with pagination.
func (r *GormBookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customer bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find customer bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// FindActiveByEquipmentID retrieves all active-status bookings for an
// equipment unit.
func (r *GormBookingRepository) FindActiveByEquipmentID(ctx context.Context, equipmentID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("equipment_id = ? AND status NOT IN ?", equipmentID, inactiveStatuses).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}

	bookings, _, err := toDomainBookings(models, 0)
	return bookings, err
}

// Create atomically persists a new booking. Within one transaction it locks
// the equipment row (serializing writers for the same unit), re-checks the
// candidate range against active bookings, allocates the booking number
// from the per-year counter and inserts. Lock and serialization failures
// surface as concurrency errors so the caller can retry.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Per-equipment mutual exclusion for the whole check-and-insert.
		var locked EquipmentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bk.EquipmentID()).
			First(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("equipment", bk.EquipmentID().String())
			}
			return fmt.Errorf("failed to lock equipment row: %w", err)
		}

		var conflicts int64
		if err := tx.Model(&BookingModel{}).
			Where("equipment_id = ? AND status NOT IN ? AND start_date < ? AND end_date > ?",
				bk.EquipmentID(), inactiveStatuses, bk.EndDate(), bk.StartDate()).
			Count(&conflicts).Error; err != nil {
			return fmt.Errorf("failed to check for conflicts: %w", err)
		}
		if conflicts > 0 {
			return domain.NewConflictError("equipment is not available for the requested dates")
		}

		year := bk.StartDate().UTC().Year()
		var seq int64
		if err := tx.Raw(
			`INSERT INTO booking_counters (entity_type, year, counter) VALUES (?, ?, 1)
			 ON CONFLICT (entity_type, year) DO UPDATE SET counter = booking_counters.counter + 1
			 RETURNING counter`,
			"booking", year,
		).Scan(&seq).Error; err != nil {
			return fmt.Errorf("failed to allocate booking number: %w", err)
		}
		if err := bk.AssignNumber(bookingDomain.FormatNumber(year, seq)); err != nil {
			return err
		}

		model, err := toBookingModel(bk)
		if err != nil {
			return fmt.Errorf("failed to convert booking to model: %w", err)
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})

	if err != nil {
		// The rollback discarded the row but not the in-memory number; clear
		// it so a retried create can take the next sequence.
		bk.ClearNumber()
		if isSerializationFailure(err) {
			return domain.NewConcurrencyError("booking create serialized with another writer")
		}
	}
	return err
}

// Update persists changes to an existing booking with optimistic locking.
// Only the mutable fields are written; rate snapshots and the price
// breakdown are immutable after creation.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// IncrementVersion was called before Update, so the row must still be
	// at the previous version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":                 string(bk.Status()),
			"cancelled_at":           bk.CancelledAt(),
			"cancellation_reason":    bk.CancellationReason(),
			"cancellation_fee_cents": bk.CancellationFeeCents(),
			"version":                bk.Version(),
			"updated_at":             bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConcurrencyError("booking was modified by another transaction")
	}
	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// isSerializationFailure recognizes PostgreSQL errors that mean two writers
// collided and the loser should retry: serialization_failure (40001),
// deadlock_detected (40P01), lock_not_available (55P03) and a duplicate
// booking number (23505) from counter races.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "23505":
			return true
		}
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	var addressJSON json.RawMessage
	if bk.DeliveryAddress() != nil {
		data, err := json.Marshal(bk.DeliveryAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal delivery address: %w", err)
		}
		addressJSON = data
	}

	rates := bk.Rates()
	breakdown := bk.Breakdown()
	return &BookingModel{
		ID:                   bk.ID(),
		BookingNumber:        bk.BookingNumber(),
		CustomerID:           bk.CustomerID(),
		EquipmentID:          bk.EquipmentID(),
		StartDate:            bk.StartDate(),
		EndDate:              bk.EndDate(),
		BookingType:          string(bk.BookingType()),
		Status:               string(bk.Status()),
		DailyRateCents:       rates.DailyRateCents,
		WeeklyRateCents:      rates.WeeklyRateCents,
		MonthlyRateCents:     rates.MonthlyRateCents,
		RentalDays:           breakdown.Days,
		SubtotalCents:        breakdown.SubtotalCents,
		TaxCents:             breakdown.TaxCents,
		FloatFeeCents:        breakdown.FloatFeeCents,
		TotalCents:           breakdown.TotalCents,
		SecurityDepositCents: bk.SecurityDepositCents(),
		DeliveryAddress:      addressJSON,
		CancelledAt:          bk.CancelledAt(),
		CancellationReason:   bk.CancellationReason(),
		CancellationFeeCents: bk.CancellationFeeCents(),
		Notes:                bk.Notes(),
		Version:              bk.Version(),
		CreatedAt:            bk.CreatedAt(),
		UpdatedAt:            bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var address *bookingDomain.Address
	if len(m.DeliveryAddress) > 0 {
		var a bookingDomain.Address
		if err := json.Unmarshal(m.DeliveryAddress, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal delivery address: %w", err)
		}
		address = &a
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingNumber,
		m.CustomerID,
		m.EquipmentID,
		bookingDomain.DateRange{Start: m.StartDate, End: m.EndDate},
		bookingDomain.Type(m.BookingType),
		status,
		bookingDomain.RateCard{
			DailyRateCents:   m.DailyRateCents,
			WeeklyRateCents:  m.WeeklyRateCents,
			MonthlyRateCents: m.MonthlyRateCents,
		},
		bookingDomain.PriceBreakdown{
			Days:          m.RentalDays,
			SubtotalCents: m.SubtotalCents,
			TaxCents:      m.TaxCents,
			FloatFeeCents: m.FloatFeeCents,
			TotalCents:    m.TotalCents,
		},
		m.SecurityDepositCents,
		address,
		m.CancelledAt,
		m.CancellationReason,
		m.CancellationFeeCents,
		m.Notes,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
