package model

import "strings"

// DefaultCurrencyCode is used when a currency note omits its code.
const DefaultCurrencyCode = "INR"

// CurrencyNumber is a banknote with a collectible serial.
type CurrencyNumber struct {
	ID           int64  `json:"id"`
	SerialNumber string `json:"serial_number" validate:"required,max=32"`
	Denomination int    `json:"denomination" validate:"gte=0"`
	CurrencyCode string `json:"currency_code" validate:"required,len=3"`
	Listing
}

// NewCurrencyNumber returns a currency number with default flags.
func NewCurrencyNumber() CurrencyNumber {
	return CurrencyNumber{Listing: newListing(), CurrencyCode: DefaultCurrencyCode}
}

// CurrencyNumberInput is a partial currency number.
type CurrencyNumberInput struct {
	SerialNumber *string `json:"serial_number"`
	Denomination *int    `json:"denomination"`
	CurrencyCode *string `json:"currency_code"`
	ListingInput
}

// Apply copies the set fields of in onto c.
func (in CurrencyNumberInput) Apply(c *CurrencyNumber) {
	if in.SerialNumber != nil {
		c.SerialNumber = strings.ToUpper(strings.TrimSpace(*in.SerialNumber))
	}
	if in.Denomination != nil {
		c.Denomination = *in.Denomination
	}
	if in.CurrencyCode != nil {
		c.CurrencyCode = strings.ToUpper(strings.TrimSpace(*in.CurrencyCode))
	}
	in.ListingInput.apply(&c.Listing)
}
