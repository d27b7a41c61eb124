package model

import "time"

// SavedProduct is a per-owner catalog entry used to pre-fill the add-item
// form. It is a suggestion cache: list items never reference it.
type SavedProduct struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name"`
	DefaultPrice *float64  `json:"default_price"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
}
