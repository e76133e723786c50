package enums

import "fmt"

// ReceiptType selects which printed ticket a receipt represents.
type ReceiptType string

const (
	ReceiptTypeKitchen  ReceiptType = "kitchen"
	ReceiptTypeDelivery ReceiptType = "delivery"
)

var validReceiptTypes = []ReceiptType{
	ReceiptTypeKitchen,
	ReceiptTypeDelivery,
}

// String implements fmt.Stringer.
func (r ReceiptType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReceiptType.
func (r ReceiptType) IsValid() bool {
	for _, candidate := range validReceiptTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReceiptType converts raw input into a ReceiptType.
func ParseReceiptType(value string) (ReceiptType, error) {
	for _, candidate := range validReceiptTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid receipt type %q", value)
}
