package insurance

import (
	"fmt"
	"time"
)

// MinGeneralLiabilityCents is the fixed minimum general liability coverage
// every certificate must carry: $2,000,000.
const MinGeneralLiabilityCents int64 = 200_000_000

// ComplianceReport is the outcome of evaluating one record against the
// coverage requirements. One error per failed hard requirement; warnings do
// not affect validity.
type ComplianceReport struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Evaluate checks a certificate of insurance against the fixed coverage
// requirements for an equipment unit with the given replacement value.
// Pure function: no side effects, callers persist the result if they need to.
func Evaluate(record *Record, replacementValueCents int64, now time.Time) ComplianceReport {
	var report ComplianceReport

	if record.GeneralLiabilityLimitCents < MinGeneralLiabilityCents {
		report.Errors = append(report.Errors, fmt.Sprintf(
			"general liability limit $%s is below the required $%s",
			formatDollars(record.GeneralLiabilityLimitCents), formatDollars(MinGeneralLiabilityCents)))
	}
	if record.EquipmentLimitCents < replacementValueCents {
		report.Errors = append(report.Errors, fmt.Sprintf(
			"equipment coverage $%s is below the unit replacement value $%s",
			formatDollars(record.EquipmentLimitCents), formatDollars(replacementValueCents)))
	}
	if !record.AdditionalInsuredIncluded {
		report.Errors = append(report.Errors, "additional insured endorsement is missing")
	}
	if !record.LossPayeeIncluded {
		report.Errors = append(report.Errors, "loss payee endorsement is missing")
	}
	if !record.WaiverOfSubrogationIncluded {
		report.Errors = append(report.Errors, "waiver of subrogation endorsement is missing")
	}
	if record.IsExpired(now) {
		report.Errors = append(report.Errors, fmt.Sprintf(
			"policy expired on %s", record.ExpiresAt.UTC().Format("2006-01-02")))
	}
	if record.EffectiveDate.After(now) {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"policy is not yet effective until %s", record.EffectiveDate.UTC().Format("2006-01-02")))
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

// formatDollars renders cents as a plain dollar amount for error messages.
func formatDollars(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", neg, cents/100, cents%100)
}
