package status

import (
	"errors"
	"time"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

// ErrPurchaserRequired is returned when marking an item purchased without
// purchaser details. Name and phone may be empty, but the record itself is
// mandatory so the purchase date is always set.
var ErrPurchaserRequired = errors.New("purchaser info required to mark purchased")

// PurchaserInfo carries the visitor details captured when an item is
// claimed.
type PurchaserInfo struct {
	Name       string
	Phone      string
	Date       time.Time
	PickedUp   bool
	Paid       bool
	AmountPaid *float64
}

// Change is the full consistent claim field set to persist for one item.
// Stores write every field of a Change in a single update, so a Change is
// authoritative: there is no partial patching of claim state.
type Change struct {
	IsPurchased    bool
	IsReserved     bool
	PurchaserName  *string
	PurchaserPhone *string
	PurchaseDate   *time.Time
	IsPickedUp     bool
	IsPaid         bool
	AmountPaid     *float64
}

// SetPurchased computes the field set for toggling the purchased flag.
// Purchasing forces the reservation off and copies the purchaser details;
// un-purchasing clears every dependent field regardless of input.
func SetPurchased(value bool, info *PurchaserInfo) (Change, error) {
	if !value {
		return Change{}, nil
	}
	if info == nil {
		return Change{}, ErrPurchaserRequired
	}
	date := info.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return Change{
		IsPurchased:    true,
		IsReserved:     false,
		PurchaserName:  &info.Name,
		PurchaserPhone: &info.Phone,
		PurchaseDate:   &date,
		IsPickedUp:     info.PickedUp,
		IsPaid:         info.Paid,
		AmountPaid:     info.AmountPaid,
	}, nil
}

// SetReserved computes the field set for toggling the reserved flag.
// Reserving forces the purchased flag off. Payment fields stay unset: they
// are meaningful only once the item is actually purchased. Un-reserving
// clears the same dependent field set as un-purchasing.
func SetReserved(value bool, info *PurchaserInfo) Change {
	if !value {
		return Change{}
	}
	ch := Change{IsReserved: true}
	if info != nil {
		date := info.Date
		if date.IsZero() {
			date = time.Now().UTC()
		}
		ch.PurchaserName = &info.Name
		ch.PurchaserPhone = &info.Phone
		ch.PurchaseDate = &date
		ch.IsPickedUp = info.PickedUp
	}
	return ch
}

// NextColor advances the operational tag one step through the display
// cycle none → yellow → green → red → none. The stored values keep the
// legacy encoding, so the cycle is not in numeric order.
func NextColor(c model.ColorStatus) model.ColorStatus {
	switch c {
	case model.ColorNone:
		return model.ColorYellow
	case model.ColorYellow:
		return model.ColorGreen
	case model.ColorGreen:
		return model.ColorRed
	default:
		return model.ColorNone
	}
}

// Apply writes a Change onto an item, leaving non-claim fields untouched.
func Apply(item *model.ListItem, ch Change) {
	item.IsPurchased = ch.IsPurchased
	item.IsReserved = ch.IsReserved
	item.PurchaserName = ch.PurchaserName
	item.PurchaserPhone = ch.PurchaserPhone
	item.PurchaseDate = ch.PurchaseDate
	item.IsPickedUp = ch.IsPickedUp
	item.IsPaid = ch.IsPaid
	item.AmountPaid = ch.AmountPaid
}
