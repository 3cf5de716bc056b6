package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/numerology"
	"github.com/numera-market/numera/internal/store"
)

// PhoneNumbers manages phone number listings.
type PhoneNumbers struct {
	records[model.PhoneNumber]
}

// NewPhoneNumbers returns a phone number service backed by db.
func NewPhoneNumbers(db *sql.DB) *PhoneNumbers {
	return &PhoneNumbers{records[model.PhoneNumber]{db: db, t: table[model.PhoneNumber]{
		entity:     "phone number",
		prefix:     "phone_numbers",
		create:     store.CreatePhoneNumber,
		get:        store.GetPhoneNumber,
		list:       store.ListPhoneNumbers,
		listActive: store.ListActivePhoneNumbers,
		update:     store.UpdatePhoneNumber,
		delete:     store.DeletePhoneNumber,
	}}}
}

// Create stores a new phone number with its digit sum filled in.
func (s *PhoneNumbers) Create(ctx context.Context, in model.PhoneNumberInput) (*model.PhoneNumber, error) {
	p := model.NewPhoneNumber()
	in.Apply(&p)
	p.DigitSum = numerology.Reduce(p.Number)
	return s.insert(ctx, &p)
}

// Update merges in over the stored phone number.
func (s *PhoneNumbers) Update(ctx context.Context, id int64, in model.PhoneNumberInput) (*model.PhoneNumber, error) {
	return s.modify(ctx, id, func(p *model.PhoneNumber) {
		in.Apply(p)
		p.DigitSum = numerology.Reduce(p.Number)
	})
}

// SetSold marks a phone number sold or available.
func (s *PhoneNumbers) SetSold(ctx context.Context, id int64, sold bool) (*model.PhoneNumber, error) {
	return s.Update(ctx, id, model.PhoneNumberInput{ListingInput: model.ListingInput{IsSold: &sold}})
}

// SetActive shows or hides a phone number.
func (s *PhoneNumbers) SetActive(ctx context.Context, id int64, active bool) (*model.PhoneNumber, error) {
	return s.Update(ctx, id, model.PhoneNumberInput{ListingInput: model.ListingInput{IsActive: &active}})
}

// VehicleNumbers manages registration plate listings.
type VehicleNumbers struct {
	records[model.VehicleNumber]
}

// NewVehicleNumbers returns a vehicle number service backed by db.
func NewVehicleNumbers(db *sql.DB) *VehicleNumbers {
	return &VehicleNumbers{records[model.VehicleNumber]{db: db, t: table[model.VehicleNumber]{
		entity:     "vehicle number",
		prefix:     "vehicle_numbers",
		create:     store.CreateVehicleNumber,
		get:        store.GetVehicleNumber,
		list:       store.ListVehicleNumbers,
		listActive: store.ListActiveVehicleNumbers,
		update:     store.UpdateVehicleNumber,
		delete:     store.DeleteVehicleNumber,
	}}}
}

// Create stores a new vehicle number. A missing state code is taken from
// the plate's leading letters.
func (s *VehicleNumbers) Create(ctx context.Context, in model.VehicleNumberInput) (*model.VehicleNumber, error) {
	v := model.NewVehicleNumber()
	in.Apply(&v)
	fillVehicle(&v)
	return s.insert(ctx, &v)
}

// Update merges in over the stored vehicle number.
func (s *VehicleNumbers) Update(ctx context.Context, id int64, in model.VehicleNumberInput) (*model.VehicleNumber, error) {
	return s.modify(ctx, id, func(v *model.VehicleNumber) {
		in.Apply(v)
		fillVehicle(v)
	})
}

// SetSold marks a vehicle number sold or available.
func (s *VehicleNumbers) SetSold(ctx context.Context, id int64, sold bool) (*model.VehicleNumber, error) {
	return s.Update(ctx, id, model.VehicleNumberInput{ListingInput: model.ListingInput{IsSold: &sold}})
}

// SetActive shows or hides a vehicle number.
func (s *VehicleNumbers) SetActive(ctx context.Context, id int64, active bool) (*model.VehicleNumber, error) {
	return s.Update(ctx, id, model.VehicleNumberInput{ListingInput: model.ListingInput{IsActive: &active}})
}

func fillVehicle(v *model.VehicleNumber) {
	v.DigitSum = numerology.Reduce(v.PlateNumber)
	if v.StateCode == "" {
		v.StateCode = stateCode(v.PlateNumber)
	}
}

// stateCode returns the leading letters of a plate, up to two.
func stateCode(plate string) string {
	i := 0
	for i < len(plate) && i < 2 && plate[i] >= 'A' && plate[i] <= 'Z' {
		i++
	}
	if i < 2 {
		return ""
	}
	return plate[:i]
}

// CurrencyNumbers manages banknote serial listings.
type CurrencyNumbers struct {
	records[model.CurrencyNumber]
}

// NewCurrencyNumbers returns a currency number service backed by db.
func NewCurrencyNumbers(db *sql.DB) *CurrencyNumbers {
	return &CurrencyNumbers{records[model.CurrencyNumber]{db: db, t: table[model.CurrencyNumber]{
		entity:     "currency number",
		prefix:     "currency_numbers",
		create:     store.CreateCurrencyNumber,
		get:        store.GetCurrencyNumber,
		list:       store.ListCurrencyNumbers,
		listActive: store.ListActiveCurrencyNumbers,
		update:     store.UpdateCurrencyNumber,
		delete:     store.DeleteCurrencyNumber,
	}}}
}

// Create stores a new currency number, defaulting the currency code.
func (s *CurrencyNumbers) Create(ctx context.Context, in model.CurrencyNumberInput) (*model.CurrencyNumber, error) {
	c := model.NewCurrencyNumber()
	in.Apply(&c)
	fillCurrency(&c)
	return s.insert(ctx, &c)
}

// Update merges in over the stored currency number.
func (s *CurrencyNumbers) Update(ctx context.Context, id int64, in model.CurrencyNumberInput) (*model.CurrencyNumber, error) {
	return s.modify(ctx, id, func(c *model.CurrencyNumber) {
		in.Apply(c)
		fillCurrency(c)
	})
}

// SetSold marks a currency number sold or available.
func (s *CurrencyNumbers) SetSold(ctx context.Context, id int64, sold bool) (*model.CurrencyNumber, error) {
	return s.Update(ctx, id, model.CurrencyNumberInput{ListingInput: model.ListingInput{IsSold: &sold}})
}

// SetActive shows or hides a currency number.
func (s *CurrencyNumbers) SetActive(ctx context.Context, id int64, active bool) (*model.CurrencyNumber, error) {
	return s.Update(ctx, id, model.CurrencyNumberInput{ListingInput: model.ListingInput{IsActive: &active}})
}

func fillCurrency(c *model.CurrencyNumber) {
	c.DigitSum = numerology.Reduce(c.SerialNumber)
	if strings.TrimSpace(c.CurrencyCode) == "" {
		c.CurrencyCode = model.DefaultCurrencyCode
	}
}
