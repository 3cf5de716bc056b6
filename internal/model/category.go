package model

import "time"

// Category groups sellable numbers, e.g. "VIP", "Fancy", "Mirror".
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Slug        string    `json:"slug" validate:"required,max=120"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	SortOrder   int       `json:"sort_order" validate:"gte=0"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory returns a category with default flags.
func NewCategory() Category {
	return Category{IsActive: true}
}

// CategoryInput is a partial category. Nil fields are left unchanged.
type CategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// Apply copies the set fields of in onto c.
func (in CategoryInput) Apply(c *Category) {
	setString(&c.Name, in.Name)
	setString(&c.Slug, in.Slug)
	setString(&c.Description, in.Description)
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	setBool(&c.IsActive, in.IsActive)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
