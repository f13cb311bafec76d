package enums

import "fmt"

// SupplierEventType is the closed set of events the dropshipping supplier
// delivers to the webhook. Unrecognized raw values are logged and ignored by
// the handler, never rejected.
type SupplierEventType string

const (
	SupplierEventOrderStatusUpdate    SupplierEventType = "ORDER_STATUS_UPDATE"
	SupplierEventTrackingNumberUpdate SupplierEventType = "TRACKING_NUMBER_UPDATE"
	SupplierEventInventoryUpdate      SupplierEventType = "INVENTORY_UPDATE"
	SupplierEventPriceUpdate          SupplierEventType = "PRICE_UPDATE"
)

var validSupplierEventTypes = []SupplierEventType{
	SupplierEventOrderStatusUpdate,
	SupplierEventTrackingNumberUpdate,
	SupplierEventInventoryUpdate,
	SupplierEventPriceUpdate,
}

// IsValid reports whether the value is a known SupplierEventType.
func (t SupplierEventType) IsValid() bool {
	for _, candidate := range validSupplierEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSupplierEventType converts raw input into a SupplierEventType.
func ParseSupplierEventType(value string) (SupplierEventType, error) {
	for _, candidate := range validSupplierEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier event type %q", value)
}
