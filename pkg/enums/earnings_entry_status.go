package enums

import "fmt"

// EarningsEntryStatus marks whether a ledger row has been funded. Rows are
// written as paid at the moment payment confirmation arrives.
type EarningsEntryStatus string

const (
	EarningsEntryStatusPending EarningsEntryStatus = "pending"
	EarningsEntryStatusPaid    EarningsEntryStatus = "paid"
)

var validEarningsEntryStatuses = []EarningsEntryStatus{
	EarningsEntryStatusPending,
	EarningsEntryStatusPaid,
}

// IsValid reports whether the value is a known EarningsEntryStatus.
func (s EarningsEntryStatus) IsValid() bool {
	for _, candidate := range validEarningsEntryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEarningsEntryStatus converts raw input into an EarningsEntryStatus.
func ParseEarningsEntryStatus(value string) (EarningsEntryStatus, error) {
	for _, candidate := range validEarningsEntryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid earnings entry status %q", value)
}
