package model

import "time"

// Encargo is a custom counter order tracked outside the list/item model.
type Encargo struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	ProductName  string    `json:"product_name"`
	Brand        string    `json:"brand"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_phone"`
	Price        *float64  `json:"price"`
	Deposit      float64   `json:"deposit"`
	Observations string    `json:"observations"`
	IsOrdered    bool      `json:"is_ordered"`
	IsPickedUp   bool      `json:"is_picked_up"`
	CreatedAt    time.Time `json:"created_at"`
}
