package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/numera-market/numera/internal/apperr"

	"github.com/numera-market/numera/internal/model"
)

func (s *Server) categoriesScreen() *screen[model.Category, model.CategoryInput] {
	return &screen[model.Category, model.CategoryInput]{
		s: s, title: "Categories", template: "categories.html", path: "/categories",
		svc:   s.Services.Categories,
		parse: parseCategory,
		apply: model.CategoryInput.Apply,
		blank: model.NewCategory,
		id:    func(c model.Category) int64 { return c.ID },
		label: func(c model.Category) string { return fmt.Sprintf("Category %q", c.Name) },
		text:  func(c model.Category) []string { return []string{c.Name, c.Slug, c.Description} },
	}
}

func listingText(l model.Listing) []string {
	return []string{l.Description, l.CategoryName, l.Price.String()}
}

func (s *Server) phoneNumbersScreen() *screen[model.PhoneNumber, model.PhoneNumberInput] {
	return &screen[model.PhoneNumber, model.PhoneNumberInput]{
		s: s, title: "Phone numbers", template: "phone_numbers.html", path: "/phone-numbers",
		svc:     s.Services.PhoneNumbers,
		toggles: s.Services.PhoneNumbers,
		parse:   parsePhoneNumber,
		apply:   model.PhoneNumberInput.Apply,
		blank:   model.NewPhoneNumber,
		id:      func(p model.PhoneNumber) int64 { return p.ID },
		label:   func(p model.PhoneNumber) string { return "Number " + p.Number },
		text: func(p model.PhoneNumber) []string {
			return append(listingText(p.Listing), p.Number)
		},
	}
}

func (s *Server) vehicleNumbersScreen() *screen[model.VehicleNumber, model.VehicleNumberInput] {
	return &screen[model.VehicleNumber, model.VehicleNumberInput]{
		s: s, title: "Vehicle numbers", template: "vehicle_numbers.html", path: "/vehicle-numbers",
		svc:     s.Services.VehicleNumbers,
		toggles: s.Services.VehicleNumbers,
		parse:   parseVehicleNumber,
		apply:   model.VehicleNumberInput.Apply,
		blank:   model.NewVehicleNumber,
		id:      func(v model.VehicleNumber) int64 { return v.ID },
		label:   func(v model.VehicleNumber) string { return "Plate " + v.PlateNumber },
		text: func(v model.VehicleNumber) []string {
			return append(listingText(v.Listing), v.PlateNumber, v.StateCode)
		},
	}
}

func (s *Server) currencyNumbersScreen() *screen[model.CurrencyNumber, model.CurrencyNumberInput] {
	return &screen[model.CurrencyNumber, model.CurrencyNumberInput]{
		s: s, title: "Currency numbers", template: "currency_numbers.html", path: "/currency-numbers",
		svc:     s.Services.CurrencyNumbers,
		toggles: s.Services.CurrencyNumbers,
		parse:   parseCurrencyNumber,
		apply:   model.CurrencyNumberInput.Apply,
		blank:   model.NewCurrencyNumber,
		id:      func(c model.CurrencyNumber) int64 { return c.ID },
		label:   func(c model.CurrencyNumber) string { return "Serial " + c.SerialNumber },
		text: func(c model.CurrencyNumber) []string {
			return append(listingText(c.Listing), c.SerialNumber, c.CurrencyCode, strconv.Itoa(c.Denomination))
		},
	}
}

func (s *Server) numerologyScreen() *screen[model.NumerologyEntry, model.NumerologyInput] {
	return &screen[model.NumerologyEntry, model.NumerologyInput]{
		s: s, title: "Numerology", template: "numerology.html", path: "/numerology",
		svc:   s.Services.Numerology,
		parse: parseNumerology,
		apply: model.NumerologyInput.Apply,
		blank: model.NewNumerologyEntry,
		id:    func(e model.NumerologyEntry) int64 { return e.ID },
		label: func(e model.NumerologyEntry) string { return "Key " + e.Key },
		text: func(e model.NumerologyEntry) []string {
			return []string{e.Key, e.Title, e.Description, e.RulingPlanet, e.LuckyColor}
		},
		extra: s.numerologyLookup,
	}
}

type lookupResult struct {
	Value string
	Match model.NumerologyMatch
	Error string
}

// numerologyLookup answers the lookup box of the numerology screen.
func (s *Server) numerologyLookup(r *http.Request) any {
	value := strings.TrimSpace(r.URL.Query().Get("value"))
	if value == "" {
		return nil
	}
	res := &lookupResult{Value: value}
	m, err := s.Services.Numerology.Lookup(r.Context(), value)
	res.Match = m
	if err != nil {
		res.Error = apperr.Message(err)
	}
	return res
}
