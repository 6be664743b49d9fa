package booking

import "fmt"

// NumberPrefix is the entity prefix for rental booking numbers.
const NumberPrefix = "RB"

// FormatNumber renders a booking number as PREFIX-YEAR-NNN. Sequences are
// zero-padded to three digits and widen naturally beyond 999.
//
// Allocation of the sequence itself is the repository's job: it bumps an
// atomic per-(entity, year) counter inside the create transaction, so
// numbers are unique and gap-free under concurrent creations.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%03d", NumberPrefix, year, seq)
}
