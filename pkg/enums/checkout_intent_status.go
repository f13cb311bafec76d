package enums

import "fmt"

// CheckoutIntentStatus tracks the single pending -> completed transition of a
// checkout intent. Completed is terminal.
type CheckoutIntentStatus string

const (
	CheckoutIntentStatusPending   CheckoutIntentStatus = "pending"
	CheckoutIntentStatusCompleted CheckoutIntentStatus = "completed"
)

var validCheckoutIntentStatuses = []CheckoutIntentStatus{
	CheckoutIntentStatusPending,
	CheckoutIntentStatusCompleted,
}

// IsValid reports whether the value is a known CheckoutIntentStatus.
func (s CheckoutIntentStatus) IsValid() bool {
	for _, candidate := range validCheckoutIntentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCheckoutIntentStatus converts raw input into a CheckoutIntentStatus.
func ParseCheckoutIntentStatus(value string) (CheckoutIntentStatus, error) {
	for _, candidate := range validCheckoutIntentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout intent status %q", value)
}
