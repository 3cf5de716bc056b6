package model

import "time"

// VisitorCounter counts storefront page views.
type VisitorCounter struct {
	ID        int64     `json:"id"`
	Page      string    `json:"page"`
	Count     int64     `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
