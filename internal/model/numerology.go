package model

import "time"

// NumerologyEntry describes the meaning of one single-digit key.
type NumerologyEntry struct {
	ID           int64     `json:"id"`
	Key          string    `json:"key" validate:"required,len=1,numeric"`
	Title        string    `json:"title" validate:"required,max=120"`
	Description  string    `json:"description,omitempty" validate:"max=4000"`
	RulingPlanet string    `json:"ruling_planet,omitempty" validate:"max=40"`
	LuckyColor   string    `json:"lucky_color,omitempty" validate:"max=40"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewNumerologyEntry returns an entry with default flags.
func NewNumerologyEntry() NumerologyEntry {
	return NumerologyEntry{IsActive: true}
}

// NumerologyInput is a partial numerology entry.
type NumerologyInput struct {
	Key          *string `json:"key"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	RulingPlanet *string `json:"ruling_planet"`
	LuckyColor   *string `json:"lucky_color"`
	IsActive     *bool   `json:"is_active"`
}

// Apply copies the set fields of in onto e.
func (in NumerologyInput) Apply(e *NumerologyEntry) {
	setString(&e.Key, in.Key)
	setString(&e.Title, in.Title)
	setString(&e.Description, in.Description)
	setString(&e.RulingPlanet, in.RulingPlanet)
	setString(&e.LuckyColor, in.LuckyColor)
	setBool(&e.IsActive, in.IsActive)
}

// NumerologyMatch is the result of looking up a value's key.
type NumerologyMatch struct {
	Value string           `json:"value"`
	Key   string           `json:"key"`
	Entry *NumerologyEntry `json:"entry"`
}
