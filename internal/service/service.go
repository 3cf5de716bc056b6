// Package service holds the entity record services. Every error leaving
// this package is an *apperr.Error.
package service

import "database/sql"

// Services bundles the services used by the HTTP layers.
type Services struct {
	Categories      *Categories
	PhoneNumbers    *PhoneNumbers
	VehicleNumbers  *VehicleNumbers
	CurrencyNumbers *CurrencyNumbers
	Numerology      *Numerology
	Visitors        *Visitors
}

// New returns the services backed by db.
func New(db *sql.DB) *Services {
	return &Services{
		Categories:      NewCategories(db),
		PhoneNumbers:    NewPhoneNumbers(db),
		VehicleNumbers:  NewVehicleNumbers(db),
		CurrencyNumbers: NewCurrencyNumbers(db),
		Numerology:      NewNumerology(db),
		Visitors:        NewVisitors(db),
	}
}
