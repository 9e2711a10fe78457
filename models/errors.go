package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InputError rejects a malformed mix-entry payload before any replay
// runs. It never touches the ledger.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// ConsistencyError rejects a mix whose internally-derived quantity
// would be negative (dryer output exceeding finished output). It fires
// before the stock check.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

// InsufficientStockError rejects a proposed consumption that would take
// a material below zero. The message must name the exact material label
// shown to users.
type InsufficientStockError struct {
	Material    MaterialKey
	RequestedKg decimal.Decimal
	AvailableKg decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Entry not saved. System does not allow negative stock.", e.Material.Label())
}
