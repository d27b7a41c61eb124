package store

import (
	"testing"

	"github.com/bartolomema-prog/listasbebe/internal/database"
)

func setupProductTestDB(t *testing.T) (*ProductStore, int64) {
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
	return NewProductStore(db), owner.ID
}

func TestProductSaveUpsertsByName(t *testing.T) {
	ps, ownerID := setupProductTestDB(t)

	price := 149.90
	first, err := ps.Save(ownerID, "Cuna colecho", &price, "Chicco", "Next2Me")
	if err != nil {
		t.Fatalf("save product: %v", err)
	}

	newPrice := 129.90
	second, err := ps.Save(ownerID, "CUNA COLECHO", &newPrice, "Chicco", "Next2Me Magic")
	if err != nil {
		t.Fatalf("save product again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-saving by name created a new row: %d vs %d", second.ID, first.ID)
	}
	if second.DefaultPrice == nil || *second.DefaultPrice != 129.90 {
		t.Errorf("default price not refreshed: %v", second.DefaultPrice)
	}
	if second.Model != "Next2Me Magic" {
		t.Errorf("model not refreshed: %q", second.Model)
	}

	all, err := ps.ListByOwner(ownerID)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("catalog size = %d, want 1", len(all))
	}
}

func TestProductSuggestSubstringMatch(t *testing.T) {
	ps, ownerID := setupProductTestDB(t)

	ps.Save(ownerID, "Cuna colecho", nil, "", "")
	ps.Save(ownerID, "Carrito gemelar", nil, "", "")
	ps.Save(ownerID, "Body manga corta", nil, "", "")

	got, err := ps.Suggest(ownerID, "cUn", 10)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Cuna colecho" {
		t.Errorf("suggest = %+v, want Cuna colecho only", got)
	}

	got, err = ps.Suggest(ownerID, "a", 2)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit not honored: got %d", len(got))
	}
}

func TestProductSuggestScopedToOwner(t *testing.T) {
	ps, ownerID := setupProductTestDB(t)

	ps.Save(ownerID, "Cuna colecho", nil, "", "")

	got, err := ps.Suggest(ownerID+1, "cuna", 10)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 0 {
		t.Error("another owner's catalog must not leak into suggestions")
	}
}

func TestProductDelete(t *testing.T) {
	ps, ownerID := setupProductTestDB(t)

	p, _ := ps.Save(ownerID, "Cuna", nil, "", "")
	if err := ps.Delete(p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	got, err := ps.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}
