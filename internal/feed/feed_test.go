package feed

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

func testItem(id int64, name string) model.ListItem {
	return model.ListItem{ID: id, ListID: 1, Name: name, CreatedAt: time.Now().UTC()}
}

func TestCollectionInsertAppends(t *testing.T) {
	c := NewCollection(nil)

	a := testItem(1, "Cuna")
	b := testItem(2, "Carrito")
	c.Apply(Inserted(&a))
	c.Apply(Inserted(&b))

	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("insertion order not preserved: %v, %v", items[0].ID, items[1].ID)
	}
}

func TestCollectionInsertIdempotent(t *testing.T) {
	c := NewCollection(nil)
	a := testItem(1, "Cuna")

	c.Apply(Inserted(&a))
	c.Apply(Inserted(&a))

	if c.Len() != 1 {
		t.Errorf("len = %d after duplicate insert, want 1", c.Len())
	}
}

func TestCollectionUpdateReplacesWholeRecord(t *testing.T) {
	a := testItem(1, "Cuna")
	name := "Ana"
	c := NewCollection([]model.ListItem{a})

	updated := a
	updated.Name = "Cuna blanca"
	updated.IsPurchased = true
	updated.PurchaserName = &name
	c.Apply(Updated(&updated))

	got := c.Get(1)
	if got == nil {
		t.Fatal("item missing after update")
	}
	if got.Name != "Cuna blanca" || !got.IsPurchased {
		t.Errorf("update not applied: %+v", got)
	}

	// Applying the same update again must not change anything.
	c.Apply(Updated(&updated))
	if c.Len() != 1 {
		t.Errorf("len = %d after repeated update, want 1", c.Len())
	}
}

func TestCollectionUpdateUnknownIDIsNoop(t *testing.T) {
	c := NewCollection([]model.ListItem{testItem(1, "Cuna")})
	ghost := testItem(99, "Fantasma")
	c.Apply(Updated(&ghost))
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCollectionDeleteRemovesByIdentity(t *testing.T) {
	c := NewCollection([]model.ListItem{testItem(1, "Cuna"), testItem(2, "Carrito")})

	c.Apply(Deleted(1, 1))
	c.Apply(Deleted(1, 1)) // repeat delivery

	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if c.Get(2) == nil {
		t.Error("surviving item missing")
	}
}

func TestBrokerDeliversToListSubscribersOnly(t *testing.T) {
	b := NewBroker(nil, slog.Default())
	sub1 := b.Subscribe(1)
	sub2 := b.Subscribe(2)
	defer b.Unsubscribe(sub1)
	defer b.Unsubscribe(sub2)

	a := testItem(1, "Cuna")
	b.Publish(Inserted(&a))

	select {
	case ev := <-sub1.C:
		if ev.Type != EventInsert || ev.ItemID != 1 {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber for list 1 got no event")
	}

	select {
	case ev := <-sub2.C:
		t.Errorf("list 2 subscriber got event for list 1: %+v", ev)
	default:
	}
}

func TestBrokerDeliversInPublishOrder(t *testing.T) {
	b := NewBroker(nil, slog.Default())
	sub := b.Subscribe(1)
	defer b.Unsubscribe(sub)

	for i := int64(1); i <= 5; i++ {
		it := testItem(i, "x")
		b.Publish(Inserted(&it))
	}

	for i := int64(1); i <= 5; i++ {
		ev := <-sub.C
		if ev.ItemID != i {
			t.Fatalf("event %d has item id %d", i, ev.ItemID)
		}
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(nil, slog.Default())
	sub := b.Subscribe(1)

	b.Unsubscribe(sub)
	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel after unsubscribe")
	}
	if n := b.SubscriberCount(1); n != 0 {
		t.Errorf("subscriber count = %d, want 0", n)
	}

	// Double unsubscribe must be safe.
	b.Unsubscribe(sub)
}

func TestBrokerSinkSeesEveryEvent(t *testing.T) {
	var got []Event
	b := NewBroker(func(ev Event) { got = append(got, ev) }, slog.Default())

	a := testItem(1, "Cuna")
	b.Publish(Inserted(&a))
	b.Publish(Deleted(1, 1))

	if len(got) != 2 {
		t.Fatalf("sink saw %d events, want 2", len(got))
	}
	if got[1].Type != EventDelete {
		t.Errorf("second sink event = %v, want delete", got[1].Type)
	}
}

// fakeSource is an in-memory ItemSource for session tests.
type fakeSource struct {
	items     []model.ListItem
	deleteErr error
	deleted   []int64
}

func (f *fakeSource) ListItemsByList(listID int64) ([]model.ListItem, error) {
	return f.items, nil
}

func (f *fakeSource) DeleteItem(id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSessionSnapshotAndMerge(t *testing.T) {
	src := &fakeSource{items: []model.ListItem{testItem(1, "Cuna")}}
	b := NewBroker(nil, slog.Default())

	s, err := OpenSession(src, b, 1)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer s.Close()

	if len(s.Items()) != 1 {
		t.Fatalf("snapshot len = %d, want 1", len(s.Items()))
	}

	newItem := testItem(2, "Carrito")
	b.Publish(Inserted(&newItem))
	s.Apply(<-s.sub.C)

	if len(s.Items()) != 2 {
		t.Errorf("after insert len = %d, want 2", len(s.Items()))
	}
}

func TestSessionOptimisticDelete(t *testing.T) {
	src := &fakeSource{items: []model.ListItem{testItem(1, "Cuna"), testItem(2, "Carrito")}}
	b := NewBroker(nil, slog.Default())

	s, err := OpenSession(src, b, 1)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer s.Close()

	if err := s.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.Items()) != 1 {
		t.Errorf("len = %d after delete, want 1", len(s.Items()))
	}
	if len(src.deleted) != 1 || src.deleted[0] != 1 {
		t.Errorf("store delete calls = %v, want [1]", src.deleted)
	}
}

func TestSessionDeleteRollbackOnStoreFailure(t *testing.T) {
	src := &fakeSource{
		items:     []model.ListItem{testItem(1, "Cuna"), testItem(2, "Carrito")},
		deleteErr: errors.New("store down"),
	}
	b := NewBroker(nil, slog.Default())

	s, err := OpenSession(src, b, 1)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer s.Close()

	if err := s.Delete(1); err == nil {
		t.Fatal("expected delete error")
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d after failed delete, want 2 (rolled back)", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("order not restored: %v, %v", items[0].ID, items[1].ID)
	}
}

func TestSessionCloseReleasesSubscription(t *testing.T) {
	src := &fakeSource{}
	b := NewBroker(nil, slog.Default())

	s, err := OpenSession(src, b, 7)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if n := b.SubscriberCount(7); n != 1 {
		t.Fatalf("subscriber count = %d, want 1", n)
	}
	s.Close()
	if n := b.SubscriberCount(7); n != 0 {
		t.Errorf("subscriber count after close = %d, want 0", n)
	}
}
