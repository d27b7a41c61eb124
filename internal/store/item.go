package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/status"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.ListItem, error) {
	var item model.ListItem
	var purchased, reserved, greenChecked, pickedUp, paid, colorStatus int
	var purchaserName, purchaserPhone sql.NullString
	var purchaseDate sql.NullTime
	var amountPaid sql.NullFloat64

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.Name, &item.Price, &item.Brand, &item.Model,
		&purchased, &reserved, &greenChecked, &pickedUp, &paid,
		&purchaserName, &purchaserPhone, &purchaseDate, &amountPaid,
		&colorStatus, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.IsPurchased = purchased != 0
	item.IsReserved = reserved != 0
	item.IsGreenChecked = greenChecked != 0
	item.IsPickedUp = pickedUp != 0
	item.IsPaid = paid != 0
	item.ColorStatus = model.ColorStatus(colorStatus)
	if purchaserName.Valid {
		item.PurchaserName = &purchaserName.String
	}
	if purchaserPhone.Valid {
		item.PurchaserPhone = &purchaserPhone.String
	}
	if purchaseDate.Valid {
		item.PurchaseDate = &purchaseDate.Time
	}
	if amountPaid.Valid {
		item.AmountPaid = &amountPaid.Float64
	}
	return &item, nil
}

const itemCols = `id, list_id, name, price, brand, model, is_purchased, is_reserved, is_green_checked, is_picked_up, is_paid, purchaser_name, purchaser_phone, purchase_date, amount_paid, color_status, created_at, updated_at`

func (s *ItemStore) CreateItem(listID int64, name string, price float64, brand, model string) (*model.ListItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO list_items (list_id, name, price, brand, model) VALUES (?, ?, ?, ?, ?)`,
		listID, name, price, brand, model,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ItemStore) GetItemByID(id int64) (*model.ListItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM list_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItemsByList returns a list's items in stable creation order.
func (s *ItemStore) ListItemsByList(listID int64) ([]model.ListItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM list_items WHERE list_id = ? ORDER BY created_at ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) UpdateItem(id int64, name string, price float64, brand, model string) (*model.ListItem, error) {
	_, err := s.db.Exec(
		`UPDATE list_items SET name = ?, price = ?, brand = ?, model = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, price, brand, model, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetItemByID(id)
}

const changeSet = `is_purchased = ?, is_reserved = ?, purchaser_name = ?, purchaser_phone = ?, purchase_date = ?, is_picked_up = ?, is_paid = ?, amount_paid = ?, updated_at = CURRENT_TIMESTAMP`

func changeArgs(ch status.Change) []any {
	return []any{
		boolToInt(ch.IsPurchased), boolToInt(ch.IsReserved),
		nullString(ch.PurchaserName), nullString(ch.PurchaserPhone),
		nullTimePtr(ch.PurchaseDate),
		boolToInt(ch.IsPickedUp), boolToInt(ch.IsPaid),
		nullFloat(ch.AmountPaid),
	}
}

// ApplyChange persists a reconciled claim field set in one statement.
func (s *ItemStore) ApplyChange(id int64, ch status.Change) (*model.ListItem, error) {
	args := append(changeArgs(ch), id)
	_, err := s.db.Exec(`UPDATE list_items SET `+changeSet+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("apply change: %w", err)
	}
	return s.GetItemByID(id)
}

// BulkApplyChange applies the same claim field set to every listed item of
// one list as a single statement, so the batch either fully applies or
// fully fails.
func (s *ItemStore) BulkApplyChange(listID int64, ids []int64, ch status.Change) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("bulk apply change: empty id set")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := changeArgs(ch)
	args = append(args, listID)
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := s.db.Exec(
		`UPDATE list_items SET `+changeSet+` WHERE list_id = ? AND id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk apply change: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// CycleColor advances the item's operational tag one step and returns the
// updated record. The tag is independent of claim state.
func (s *ItemStore) CycleColor(id int64) (*model.ListItem, error) {
	item, err := s.GetItemByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	next := status.NextColor(item.ColorStatus)
	_, err = s.db.Exec(
		`UPDATE list_items SET color_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		int(next), id,
	)
	if err != nil {
		return nil, fmt.Errorf("cycle color: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ItemStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM list_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// PublicItemsByCode returns the narrowed projection for a share code. The
// restricted fields are never selected, so they cannot leak through this
// path.
func (s *ItemStore) PublicItemsByCode(code string) ([]model.PublicItem, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.list_id, i.name, i.price, i.is_purchased, i.is_reserved, i.is_green_checked, i.color_status, i.created_at
		 FROM list_items i
		 JOIN shopping_lists l ON l.id = i.list_id
		 WHERE l.share_code = ? AND l.is_archived = 0
		 ORDER BY i.created_at ASC, i.id ASC`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("public items by code: %w", err)
	}
	defer rows.Close()

	var items []model.PublicItem
	for rows.Next() {
		var item model.PublicItem
		var purchased, reserved, greenChecked, colorStatus int
		err := rows.Scan(
			&item.ID, &item.ListID, &item.Name, &item.Price,
			&purchased, &reserved, &greenChecked, &colorStatus, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan public item: %w", err)
		}
		item.IsPurchased = purchased != 0
		item.IsReserved = reserved != 0
		item.IsGreenChecked = greenChecked != 0
		item.ColorStatus = model.ColorStatus(colorStatus)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Totals returns the pending and purchased price sums for a list.
func (s *ItemStore) Totals(listID int64) (pending, purchased float64, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN is_purchased = 0 THEN price ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN is_purchased = 1 THEN price ELSE 0 END), 0)
		 FROM list_items WHERE list_id = ?`,
		listID,
	).Scan(&pending, &purchased)
	if err != nil {
		return 0, 0, fmt.Errorf("list totals: %w", err)
	}
	return pending, purchased, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
