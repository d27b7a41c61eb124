package model

import "time"

// ColorStatus is the independent operational tag on an item. The stored
// values keep the legacy numeric encoding, so the display cycle
// none → yellow → green → red does not follow numeric order.
type ColorStatus int

const (
	ColorNone   ColorStatus = 0
	ColorGreen  ColorStatus = 1
	ColorYellow ColorStatus = 2
	ColorRed    ColorStatus = 3
)

// Text returns the export label for a color status.
func (c ColorStatus) Text() string {
	switch c {
	case ColorGreen:
		return "Verde"
	case ColorYellow:
		return "Amarillo"
	case ColorRed:
		return "Rojo"
	default:
		return "Blanco"
	}
}

// ListItem is one desired product entry within a list.
//
// IsPurchased and IsReserved are mutually exclusive. The purchaser fields,
// pickup and payment flags are meaningful only while the item is claimed;
// the status package computes consistent transitions.
type ListItem struct {
	ID             int64       `json:"id"`
	ListID         int64       `json:"list_id"`
	Name           string      `json:"name"`
	Price          float64     `json:"price"`
	Brand          string      `json:"brand"`
	Model          string      `json:"model"`
	IsPurchased    bool        `json:"is_purchased"`
	IsReserved     bool        `json:"is_reserved"`
	IsGreenChecked bool        `json:"is_green_checked"`
	IsPickedUp     bool        `json:"is_picked_up"`
	IsPaid         bool        `json:"is_paid"`
	PurchaserName  *string     `json:"purchaser_name"`
	PurchaserPhone *string     `json:"purchaser_phone"`
	PurchaseDate   *time.Time  `json:"purchase_date"`
	AmountPaid     *float64    `json:"amount_paid"`
	ColorStatus    ColorStatus `json:"color_status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// PublicItem is the code-path projection of an item. Purchaser identity,
// phone and payment amounts are excluded by shape, not by filtering.
type PublicItem struct {
	ID             int64       `json:"id"`
	ListID         int64       `json:"list_id"`
	Name           string      `json:"name"`
	Price          float64     `json:"price"`
	IsPurchased    bool        `json:"is_purchased"`
	IsReserved     bool        `json:"is_reserved"`
	IsGreenChecked bool        `json:"is_green_checked"`
	ColorStatus    ColorStatus `json:"color_status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Public returns the narrowed projection of i.
func (i *ListItem) Public() PublicItem {
	return PublicItem{
		ID:             i.ID,
		ListID:         i.ListID,
		Name:           i.Name,
		Price:          i.Price,
		IsPurchased:    i.IsPurchased,
		IsReserved:     i.IsReserved,
		IsGreenChecked: i.IsGreenChecked,
		ColorStatus:    i.ColorStatus,
		CreatedAt:      i.CreatedAt,
	}
}
