package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing holds the fields shared by every sellable number.
type Listing struct {
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	Description string          `json:"description,omitempty" validate:"max=1000"`
	// DigitSum is the numerology key derived from the number itself.
	DigitSum  int       `json:"digit_sum" validate:"gte=0,lte=9"`
	IsActive  bool      `json:"is_active"`
	IsSold    bool      `json:"is_sold"`
	IsPremium bool      `json:"is_premium"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined from categories, not always populated.
	CategoryName string `json:"category_name,omitempty"`
}

// Available reports whether the listing is shown to customers.
func (l Listing) Available() bool {
	return l.IsActive && !l.IsSold
}

func newListing() Listing {
	return Listing{IsActive: true, Price: decimal.Zero}
}

// ListingInput is the partial form of Listing.
type ListingInput struct {
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int64           `json:"category_id"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
	IsSold      *bool            `json:"is_sold"`
	IsPremium   *bool            `json:"is_premium"`
}

func (in ListingInput) apply(l *Listing) {
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.CategoryID != nil {
		l.CategoryID = *in.CategoryID
	}
	setString(&l.Description, in.Description)
	setBool(&l.IsActive, in.IsActive)
	setBool(&l.IsSold, in.IsSold)
	setBool(&l.IsPremium, in.IsPremium)
}
