package store

import (
	"strings"
	"testing"

	"github.com/bartolomema-prog/listasbebe/internal/database"
	"github.com/bartolomema-prog/listasbebe/internal/model"
)

func setupListTestDB(t *testing.T) (*ListStore, *ItemStore, *model.User) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := NewUserStore(db)
	owner, err := us.Create("owner@example.com", "hash")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return NewListStore(db), NewItemStore(db), owner
}

func TestListCreateGeneratesShareCode(t *testing.T) {
	ls, _, owner := setupListTestDB(t)

	list, err := ls.Create(owner.ID, "Martina", "Carlos", "Lucia", "600111222")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if len(list.ShareCode) != shareCodeLength {
		t.Errorf("share code length = %d, want %d", len(list.ShareCode), shareCodeLength)
	}
	for _, r := range list.ShareCode {
		if !strings.ContainsRune(shareCodeAlphabet, r) {
			t.Errorf("share code %q contains %q outside alphabet", list.ShareCode, r)
		}
	}
	if list.BabyName != "Martina" || list.Name != "Martina" {
		t.Errorf("baby_name = %q, name = %q, want Martina", list.BabyName, list.Name)
	}
	if list.IsArchived {
		t.Error("new list must not be archived")
	}
}

func TestListShareCodesAreUnique(t *testing.T) {
	ls, _, owner := setupListTestDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		list, err := ls.Create(owner.ID, "Bebe", "", "", "")
		if err != nil {
			t.Fatalf("create list %d: %v", i, err)
		}
		if seen[list.ShareCode] {
			t.Fatalf("duplicate share code %q", list.ShareCode)
		}
		seen[list.ShareCode] = true
	}
}

func TestListGetByCodeCaseInsensitive(t *testing.T) {
	ls, _, owner := setupListTestDB(t)

	list, _ := ls.Create(owner.ID, "Martina", "", "", "")

	got, err := ls.GetByCode(strings.ToLower(list.ShareCode))
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got == nil || got.ID != list.ID {
		t.Fatalf("lowercase lookup failed for %q", list.ShareCode)
	}
}

func TestListGetByCodeNotFound(t *testing.T) {
	ls, _, _ := setupListTestDB(t)

	got, err := ls.GetByCode("ZZZZZZ")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown code")
	}
}

func TestListUpdateAndArchive(t *testing.T) {
	ls, _, owner := setupListTestDB(t)

	list, _ := ls.Create(owner.ID, "Martina", "", "", "")

	updated, err := ls.Update(list.ID, "Martina Sofia", "Carlos", "Lucia", "600999888")
	if err != nil {
		t.Fatalf("update list: %v", err)
	}
	if updated.BabyName != "Martina Sofia" || updated.FatherName != "Carlos" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.ShareCode != list.ShareCode {
		t.Error("share code must survive updates")
	}

	archived, err := ls.SetArchived(list.ID, true)
	if err != nil {
		t.Fatalf("archive list: %v", err)
	}
	if !archived.IsArchived {
		t.Error("expected is_archived = true")
	}

	restored, err := ls.SetArchived(list.ID, false)
	if err != nil {
		t.Fatalf("unarchive list: %v", err)
	}
	if restored.IsArchived {
		t.Error("expected is_archived = false")
	}
}

func TestListByOwnerNewestFirst(t *testing.T) {
	ls, _, owner := setupListTestDB(t)

	first, _ := ls.Create(owner.ID, "Primero", "", "", "")
	second, _ := ls.Create(owner.ID, "Segundo", "", "", "")

	lists, err := ls.ListByOwner(owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("len = %d, want 2", len(lists))
	}
	if lists[0].ID != second.ID || lists[1].ID != first.ID {
		t.Errorf("order = [%d, %d], want [%d, %d]", lists[0].ID, lists[1].ID, second.ID, first.ID)
	}
}

func TestListDeleteCascadesItems(t *testing.T) {
	ls, is, owner := setupListTestDB(t)

	list, _ := ls.Create(owner.ID, "Martina", "", "", "")
	is.CreateItem(list.ID, "Cuna", 149.90, "", "")
	is.CreateItem(list.ID, "Carrito", 299.00, "", "")

	if err := ls.Delete(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	items, err := is.ListItemsByList(list.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected 0 items after cascade, got %d", len(items))
	}
}
