package model

import "time"

// EntregaItem is a layaway item with deposits paid against it over time.
//
// TotalPaid is derived from the payment records on every load and after
// every payment mutation; it is never persisted.
type EntregaItem struct {
	ID          int64            `json:"id"`
	OwnerID     int64            `json:"owner_id"`
	ProductName string           `json:"product_name"`
	Brand       string           `json:"brand"`
	ClientName  string           `json:"client_name"`
	ClientPhone string           `json:"client_phone"`
	Price       float64          `json:"price"`
	IsFinished  bool             `json:"is_finished"`
	Payments    []EntregaPayment `json:"payments"`
	TotalPaid   float64          `json:"total_paid"`
	CreatedAt   time.Time        `json:"created_at"`
}

// EntregaPayment is a single deposit against an EntregaItem.
type EntregaPayment struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"entregas_item_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
