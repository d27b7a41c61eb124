package status

import (
	"testing"
	"time"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

func TestSetPurchasedCopiesPurchaserInfo(t *testing.T) {
	date := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ch, err := SetPurchased(true, &PurchaserInfo{
		Name:     "Ana",
		Phone:    "600111222",
		Date:     date,
		PickedUp: false,
		Paid:     false,
	})
	if err != nil {
		t.Fatalf("set purchased: %v", err)
	}

	if !ch.IsPurchased {
		t.Error("expected is_purchased = true")
	}
	if ch.IsReserved {
		t.Error("purchasing must clear is_reserved")
	}
	if ch.PurchaserName == nil || *ch.PurchaserName != "Ana" {
		t.Errorf("purchaser_name = %v, want Ana", ch.PurchaserName)
	}
	if ch.PurchaserPhone == nil || *ch.PurchaserPhone != "600111222" {
		t.Errorf("purchaser_phone = %v, want 600111222", ch.PurchaserPhone)
	}
	if ch.PurchaseDate == nil || !ch.PurchaseDate.Equal(date) {
		t.Errorf("purchase_date = %v, want %v", ch.PurchaseDate, date)
	}
	if ch.IsPaid {
		t.Error("expected is_paid = false")
	}
	if ch.AmountPaid != nil {
		t.Errorf("amount_paid = %v, want nil", *ch.AmountPaid)
	}
}

func TestSetPurchasedRequiresInfo(t *testing.T) {
	_, err := SetPurchased(true, nil)
	if err != ErrPurchaserRequired {
		t.Fatalf("err = %v, want ErrPurchaserRequired", err)
	}
}

func TestSetPurchasedAllowsEmptyNameAndPhone(t *testing.T) {
	ch, err := SetPurchased(true, &PurchaserInfo{})
	if err != nil {
		t.Fatalf("set purchased: %v", err)
	}
	if ch.PurchaserName == nil || *ch.PurchaserName != "" {
		t.Errorf("purchaser_name = %v, want empty string", ch.PurchaserName)
	}
	if ch.PurchaseDate == nil || ch.PurchaseDate.IsZero() {
		t.Error("expected purchase_date defaulted to now")
	}
}

func TestUnsetPurchasedClearsDependentFields(t *testing.T) {
	ch, err := SetPurchased(false, nil)
	if err != nil {
		t.Fatalf("unset purchased: %v", err)
	}
	if ch.IsPurchased || ch.IsReserved || ch.IsPickedUp || ch.IsPaid {
		t.Errorf("expected all flags cleared, got %+v", ch)
	}
	if ch.PurchaserName != nil || ch.PurchaserPhone != nil || ch.PurchaseDate != nil || ch.AmountPaid != nil {
		t.Errorf("expected all purchaser fields nil, got %+v", ch)
	}
}

func TestSetReservedForcesPurchasedOff(t *testing.T) {
	ch := SetReserved(true, &PurchaserInfo{Name: "Luis", Phone: "600333444"})
	if ch.IsPurchased {
		t.Error("reserving must clear is_purchased")
	}
	if !ch.IsReserved {
		t.Error("expected is_reserved = true")
	}
	if ch.PurchaserName == nil || *ch.PurchaserName != "Luis" {
		t.Errorf("purchaser_name = %v, want Luis", ch.PurchaserName)
	}
	if ch.IsPaid || ch.AmountPaid != nil {
		t.Error("a reservation must not carry payment state")
	}
}

func TestSetReservedWithoutInfo(t *testing.T) {
	ch := SetReserved(true, nil)
	if !ch.IsReserved {
		t.Error("expected is_reserved = true")
	}
	if ch.PurchaserName != nil {
		t.Error("expected nil purchaser_name without info")
	}
}

func TestUnsetReservedClearsDependentFields(t *testing.T) {
	ch := SetReserved(false, nil)
	if ch.IsReserved || ch.IsPurchased || ch.IsPickedUp || ch.IsPaid {
		t.Errorf("expected all flags cleared, got %+v", ch)
	}
	if ch.PurchaserName != nil || ch.PurchaserPhone != nil || ch.PurchaseDate != nil || ch.AmountPaid != nil {
		t.Errorf("expected all purchaser fields nil, got %+v", ch)
	}
}

func TestMutualExclusionAfterAnyOperation(t *testing.T) {
	amount := 10.0
	infos := []*PurchaserInfo{
		nil,
		{},
		{Name: "Ana", Phone: "600111222", Paid: true, AmountPaid: &amount, PickedUp: true},
	}
	for _, info := range infos {
		if ch, err := SetPurchased(true, info); err == nil && ch.IsPurchased && ch.IsReserved {
			t.Errorf("SetPurchased(true, %+v): both flags set", info)
		}
		if ch := SetReserved(true, info); ch.IsPurchased && ch.IsReserved {
			t.Errorf("SetReserved(true, %+v): both flags set", info)
		}
	}
}

func TestColorCycleOrder(t *testing.T) {
	want := []model.ColorStatus{
		model.ColorYellow,
		model.ColorGreen,
		model.ColorRed,
		model.ColorNone,
	}
	c := model.ColorNone
	for i, next := range want {
		c = NextColor(c)
		if c != next {
			t.Fatalf("step %d: got %v, want %v", i+1, c, next)
		}
	}
}

func TestColorCycleClosure(t *testing.T) {
	for _, start := range []model.ColorStatus{model.ColorNone, model.ColorGreen, model.ColorYellow, model.ColorRed} {
		c := start
		for i := 0; i < 4; i++ {
			c = NextColor(c)
		}
		if c != start {
			t.Errorf("cycle from %v did not close, ended at %v", start, c)
		}
	}
}

func TestApplyLeavesNonClaimFieldsAlone(t *testing.T) {
	amount := 25.0
	item := model.ListItem{
		ID:          7,
		ListID:      3,
		Name:        "Cuna",
		Price:       149.90,
		Brand:       "Micuna",
		ColorStatus: model.ColorYellow,
	}

	ch, err := SetPurchased(true, &PurchaserInfo{Name: "Eva", Paid: true, AmountPaid: &amount})
	if err != nil {
		t.Fatalf("set purchased: %v", err)
	}
	Apply(&item, ch)

	if item.Name != "Cuna" || item.Price != 149.90 || item.Brand != "Micuna" {
		t.Errorf("display fields changed: %+v", item)
	}
	if item.ColorStatus != model.ColorYellow {
		t.Errorf("color_status changed to %v", item.ColorStatus)
	}
	if !item.IsPurchased || item.AmountPaid == nil || *item.AmountPaid != amount {
		t.Errorf("claim fields not applied: %+v", item)
	}
}
