package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// OrderItem is one line of a cart or order. Name and price are copied from
// the product at the time the line is added so later catalog edits do not
// change what the customer agreed to pay.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	Quantity  int       `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (i OrderItem) Subtotal() int {
	return i.Price * i.Quantity
}

// OrderItems stores an item list inside a JSONB column.
type OrderItems []OrderItem

// Total sums the line subtotals.
func (items OrderItems) Total() int {
	total := 0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// Value serializes the items to JSON.
func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		return json.Marshal(OrderItems{})
	}
	return json.Marshal(items)
}

// Scan decodes JSONB into the item list.
func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = OrderItems{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, items)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("types: unsupported scan type %T", value)
	}
}
