package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

// form reads a submitted entity form. Every field is posted, so every
// input pointer is set. Unparseable numbers are collected as field errors.
type form struct {
	r      *http.Request
	errors map[string]string
}

func newForm(r *http.Request) *form {
	return &form{r: r, errors: map[string]string{}}
}

func (f *form) text(name string) *string {
	v := strings.TrimSpace(f.r.FormValue(name))
	return &v
}

// check reads a checkbox.
func (f *form) check(name string) *bool {
	v := f.r.FormValue(name) != ""
	return &v
}

func (f *form) id(name string) *int64 {
	var n int64
	if v := strings.TrimSpace(f.r.FormValue(name)); v != "" {
		var err error
		if n, err = strconv.ParseInt(v, 10, 64); err != nil {
			f.errors[name] = "must be a whole number"
		}
	}
	return &n
}

func (f *form) integer(name string) *int {
	var n int
	if v := strings.TrimSpace(f.r.FormValue(name)); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			f.errors[name] = "must be a whole number"
		}
	}
	return &n
}

func (f *form) amount(name string) *decimal.Decimal {
	d := decimal.Zero
	if v := strings.TrimSpace(f.r.FormValue(name)); v != "" {
		var err error
		if d, err = decimal.NewFromString(v); err != nil {
			f.errors[name] = "must be a number"
		}
	}
	return &d
}

func (f *form) listing() model.ListingInput {
	return model.ListingInput{
		Price:       f.amount("price"),
		CategoryID:  f.id("category_id"),
		Description: f.text("description"),
		IsActive:    f.check("is_active"),
		IsSold:      f.check("is_sold"),
		IsPremium:   f.check("is_premium"),
	}
}

func (f *form) err(op string) error {
	if len(f.errors) == 0 {
		return nil
	}
	return apperr.Validation(op, "invalid input", f.errors)
}

func parseCategory(r *http.Request) (model.CategoryInput, error) {
	f := newForm(r)
	in := model.CategoryInput{
		Name:        f.text("name"),
		Slug:        f.text("slug"),
		Description: f.text("description"),
		SortOrder:   f.integer("sort_order"),
		IsActive:    f.check("is_active"),
	}
	return in, f.err("categories.form")
}

func parsePhoneNumber(r *http.Request) (model.PhoneNumberInput, error) {
	f := newForm(r)
	in := model.PhoneNumberInput{
		Number:        f.text("number"),
		ListingInput:  f.listing(),
		IsVIP:         f.check("is_vip"),
		IsTodaysOffer: f.check("is_todays_offer"),
	}
	return in, f.err("phone_numbers.form")
}

func parseVehicleNumber(r *http.Request) (model.VehicleNumberInput, error) {
	f := newForm(r)
	in := model.VehicleNumberInput{
		PlateNumber:  f.text("plate_number"),
		StateCode:    f.text("state_code"),
		ListingInput: f.listing(),
		IsVIP:        f.check("is_vip"),
	}
	return in, f.err("vehicle_numbers.form")
}

func parseCurrencyNumber(r *http.Request) (model.CurrencyNumberInput, error) {
	f := newForm(r)
	in := model.CurrencyNumberInput{
		SerialNumber: f.text("serial_number"),
		Denomination: f.integer("denomination"),
		CurrencyCode: f.text("currency_code"),
		ListingInput: f.listing(),
	}
	return in, f.err("currency_numbers.form")
}

func parseNumerology(r *http.Request) (model.NumerologyInput, error) {
	f := newForm(r)
	in := model.NumerologyInput{
		Key:          f.text("key"),
		Title:        f.text("title"),
		Description:  f.text("description"),
		RulingPlanet: f.text("ruling_planet"),
		LuckyColor:   f.text("lucky_color"),
		IsActive:     f.check("is_active"),
	}
	return in, f.err("numerology.form")
}
