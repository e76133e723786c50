package models

// ReceiptCounterID is the id of the single counter row, seeded by migration.
const ReceiptCounterID = 1

// ReceiptCounter is a single-row table backing receipt number assignment.
// The increment takes the row lock inside the verification transaction,
// which makes the sequence monotonic and gap-free under concurrent verifies.
type ReceiptCounter struct {
	ID    int   `gorm:"column:id;primaryKey"`
	Value int64 `gorm:"column:value;not null"`
}

// TableName keeps the singular counter table name explicit.
func (ReceiptCounter) TableName() string {
	return "receipt_counters"
}
