package booking

import (
	"time"

	"github.com/yardline/service-rental/internal/domain"
)

// All monetary amounts are integer minor units (cents). Conversion to
// decimal happens only at the API boundary.
const (
	// taxRatePercent is the fixed rental tax rate.
	taxRatePercent = 15

	// floatFeeCents is the flat float-truck surcharge for delivery bookings.
	floatFeeCents int64 = 15000
)

// RateCard holds an equipment unit's rental rates in cents.
type RateCard struct {
	DailyRateCents   int64 `json:"daily_rate_cents"`
	WeeklyRateCents  int64 `json:"weekly_rate_cents"`
	MonthlyRateCents int64 `json:"monthly_rate_cents"`
}

// PriceBreakdown is the result of a pricing calculation, in cents.
type PriceBreakdown struct {
	Days          int   `json:"days"`
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	FloatFeeCents int64 `json:"float_fee_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// PricingStrategy defines the interface for calculating rental prices.
type PricingStrategy interface {
	// Calculate returns the price breakdown for renting at the given rates
	// over [start, end) as the given booking type.
	Calculate(rates RateCard, start, end time.Time, bookingType Type) (PriceBreakdown, error)
}

// TieredPricingStrategy implements the standard daily/weekly/monthly tiers.
type TieredPricingStrategy struct{}

// NewTieredPricingStrategy creates a new TieredPricingStrategy.
func NewTieredPricingStrategy() *TieredPricingStrategy {
	return &TieredPricingStrategy{}
}

// Calculate computes the price breakdown in cents.
//
// Tier selection on rental days:
//   - up to 7 days:  dailyRate x days
//   - 8 to 30 days:  weeklyRate x ceil(days/7)
//   - over 30 days:  monthlyRate x ceil(days/30)
//
// Tax is 15% of the subtotal, rounded half-up to the cent. Delivery
// bookings additionally carry the flat float fee.
func (s *TieredPricingStrategy) Calculate(rates RateCard, start, end time.Time, bookingType Type) (PriceBreakdown, error) {
	if !bookingType.IsValid() {
		return PriceBreakdown{}, domain.NewValidationError("invalid booking type: " + string(bookingType))
	}

	days := RentalDays(start, end)
	if days < 1 {
		return PriceBreakdown{}, domain.NewValidationError("rental period must be at least one day")
	}

	var subtotal int64
	switch {
	case days <= 7:
		if rates.DailyRateCents <= 0 {
			return PriceBreakdown{}, domain.NewValidationError("daily rate must be positive")
		}
		subtotal = rates.DailyRateCents * int64(days)
	case days <= 30:
		if rates.WeeklyRateCents <= 0 {
			return PriceBreakdown{}, domain.NewValidationError("weekly rate must be positive")
		}
		weeks := int64((days + 6) / 7)
		subtotal = rates.WeeklyRateCents * weeks
	default:
		if rates.MonthlyRateCents <= 0 {
			return PriceBreakdown{}, domain.NewValidationError("monthly rate must be positive")
		}
		months := int64((days + 29) / 30)
		subtotal = rates.MonthlyRateCents * months
	}

	// Half-up rounding keeps repeated computations drift-free.
	taxes := (subtotal*taxRatePercent + 50) / 100

	var floatFee int64
	if bookingType == TypeDelivery {
		floatFee = floatFeeCents
	}

	return PriceBreakdown{
		Days:          days,
		SubtotalCents: subtotal,
		TaxCents:      taxes,
		FloatFeeCents: floatFee,
		TotalCents:    subtotal + taxes + floatFee,
	}, nil
}

// RentalDays returns the number of billable days in the half-open range
// [start, end), rounding partial days up. Non-positive ranges yield 0.
func RentalDays(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
