package store

import (
	"testing"

	"github.com/bartolomema-prog/listasbebe/internal/database"
	"github.com/bartolomema-prog/listasbebe/internal/model"
)

func setupEntregaTestDB(t *testing.T) (*EntregaStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	owner, err := NewUserStore(db).Create("owner@example.com", "hash")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return NewEntregaStore(db), owner.ID
}

func TestEntregaCreateStartsUnpaid(t *testing.T) {
	es, ownerID := setupEntregaTestDB(t)

	item, err := es.CreateItem(ownerID, model.EntregaItem{
		ProductName: "Silla de paseo",
		Brand:       "Bugaboo",
		ClientName:  "Maria",
		ClientPhone: "600123456",
		Price:       450,
	})
	if err != nil {
		t.Fatalf("create entrega: %v", err)
	}
	if item.TotalPaid != 0 {
		t.Errorf("total paid = %.2f, want 0", item.TotalPaid)
	}
	if len(item.Payments) != 0 {
		t.Errorf("payments = %d, want 0", len(item.Payments))
	}
	if item.IsFinished {
		t.Error("new entrega must not be finished")
	}
}

func TestEntregaPaymentTotalRecomputed(t *testing.T) {
	es, ownerID := setupEntregaTestDB(t)

	item, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "Silla", Price: 450})

	item, err := es.AddPayment(item.ID, 20.00)
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}
	item, err = es.AddPayment(item.ID, 15.50)
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}
	if item.TotalPaid != 35.50 {
		t.Errorf("total paid = %.2f, want 35.50", item.TotalPaid)
	}
	if len(item.Payments) != 2 {
		t.Fatalf("payments = %d, want 2", len(item.Payments))
	}

	item, err = es.DeletePayment(item.Payments[1].ID, item.ID)
	if err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	if item.TotalPaid != 20.00 {
		t.Errorf("total paid after delete = %.2f, want 20.00", item.TotalPaid)
	}
	if len(item.Payments) != 1 {
		t.Errorf("payments after delete = %d, want 1", len(item.Payments))
	}
}

func TestEntregaDeletePaymentWrongItemIsNoop(t *testing.T) {
	es, ownerID := setupEntregaTestDB(t)

	a, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "A", Price: 100})
	b, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "B", Price: 200})
	a, _ = es.AddPayment(a.ID, 30)

	got, err := es.DeletePayment(a.Payments[0].ID, b.ID)
	if err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	if got.ID != b.ID || got.TotalPaid != 0 {
		t.Errorf("unexpected result: %+v", got)
	}

	a, _ = es.GetItemByID(a.ID)
	if a.TotalPaid != 30 {
		t.Error("payment scoped to another entrega must survive")
	}
}

func TestEntregaUpdateAndFinish(t *testing.T) {
	es, ownerID := setupEntregaTestDB(t)

	item, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "Silla", Price: 450})
	es.AddPayment(item.ID, 100)

	got, err := es.UpdateItem(item.ID, model.EntregaItem{
		ProductName: "Silla de paseo",
		ClientName:  "Maria",
		Price:       430,
		IsFinished:  true,
	})
	if err != nil {
		t.Fatalf("update entrega: %v", err)
	}
	if got.ProductName != "Silla de paseo" || got.Price != 430 || !got.IsFinished {
		t.Errorf("update not applied: %+v", got)
	}
	if got.TotalPaid != 100 {
		t.Error("payments must survive item edits")
	}
}

func TestEntregaDeleteCascadesPayments(t *testing.T) {
	es, ownerID := setupEntregaTestDB(t)

	item, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "Silla", Price: 450})
	es.AddPayment(item.ID, 100)

	if err := es.DeleteItem(item.ID); err != nil {
		t.Fatalf("delete entrega: %v", err)
	}
	got, err := es.GetItemByID(item.ID)
	if err != nil {
		t.Fatalf("get entrega: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestEntregaListByOwnerNewestFirst(t *testing.T) {
	es, ownerID := setupEntregaTestDB(t)

	first, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "A", Price: 1})
	second, _ := es.CreateItem(ownerID, model.EntregaItem{ProductName: "B", Price: 2})
	es.AddPayment(second.ID, 1)

	items, err := es.ListByOwner(ownerID)
	if err != nil {
		t.Fatalf("list entregas: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Error("expected newest first")
	}
	if items[0].TotalPaid != 1 {
		t.Error("list must carry derived totals")
	}
}
