package enums

import "fmt"

// EarningsEntryType is the payable category of an earnings ledger row.
type EarningsEntryType string

const (
	EarningsEntryTypeAffiliate EarningsEntryType = "affiliate"
	EarningsEntryTypeReferrer  EarningsEntryType = "referrer"
	EarningsEntryTypeTax       EarningsEntryType = "tax"
)

var validEarningsEntryTypes = []EarningsEntryType{
	EarningsEntryTypeAffiliate,
	EarningsEntryTypeReferrer,
	EarningsEntryTypeTax,
}

// String implements fmt.Stringer.
func (t EarningsEntryType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known EarningsEntryType.
func (t EarningsEntryType) IsValid() bool {
	for _, candidate := range validEarningsEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseEarningsEntryType converts raw input into an EarningsEntryType.
func ParseEarningsEntryType(value string) (EarningsEntryType, error) {
	for _, candidate := range validEarningsEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid earnings entry type %q", value)
}
