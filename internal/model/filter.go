package model

import "github.com/shopspring/decimal"

// ListFilter narrows a ListActive query. Zero values mean "no constraint".
// Which Flags, Equals and Sort keys are honored depends on the entity.
type ListFilter struct {
	// Search is a case-insensitive substring matched against the entity's
	// text fields with OR semantics.
	Search     string
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	DigitSum   *int
	Flags      map[string]bool
	Equals     map[string]string
	Sort       string
	Limit      int
	Offset     int
}
