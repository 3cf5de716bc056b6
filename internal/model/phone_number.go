package model

import "strings"

// PhoneNumber is a mobile number offered for sale.
type PhoneNumber struct {
	ID     int64  `json:"id"`
	Number string `json:"number" validate:"required,max=20"`
	Listing
	IsVIP         bool `json:"is_vip"`
	IsTodaysOffer bool `json:"is_todays_offer"`
}

// NewPhoneNumber returns a phone number with default flags.
func NewPhoneNumber() PhoneNumber {
	return PhoneNumber{Listing: newListing()}
}

// PhoneNumberInput is a partial phone number.
type PhoneNumberInput struct {
	Number *string `json:"number"`
	ListingInput
	IsVIP         *bool `json:"is_vip"`
	IsTodaysOffer *bool `json:"is_todays_offer"`
}

// Apply copies the set fields of in onto p.
func (in PhoneNumberInput) Apply(p *PhoneNumber) {
	if in.Number != nil {
		p.Number = strings.TrimSpace(*in.Number)
	}
	in.ListingInput.apply(&p.Listing)
	setBool(&p.IsVIP, in.IsVIP)
	setBool(&p.IsTodaysOffer, in.IsTodaysOffer)
}
