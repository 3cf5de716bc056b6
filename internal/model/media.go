package model

import "time"

// Media is an uploaded image kept in the database.
type Media struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	MIME      string    `json:"mime"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
