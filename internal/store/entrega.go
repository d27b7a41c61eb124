package store

import (
	"database/sql"
	"fmt"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

type EntregaStore struct {
	db *sql.DB
}

func NewEntregaStore(db *sql.DB) *EntregaStore {
	return &EntregaStore{db: db}
}

func scanEntregaItem(scanner interface{ Scan(...any) error }) (*model.EntregaItem, error) {
	var e model.EntregaItem
	var finished int
	err := scanner.Scan(
		&e.ID, &e.OwnerID, &e.ProductName, &e.Brand, &e.ClientName, &e.ClientPhone,
		&e.Price, &finished, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.IsFinished = finished != 0
	return &e, nil
}

const entregaItemCols = `id, owner_id, product_name, brand, client_name, client_phone, price, is_finished, created_at`

func (s *EntregaStore) CreateItem(ownerID int64, e model.EntregaItem) (*model.EntregaItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO entregas_items (owner_id, product_name, brand, client_name, client_phone, price)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ownerID, e.ProductName, e.Brand, e.ClientName, e.ClientPhone, e.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entrega: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

// GetItemByID loads an entrega with its payments and recomputed total.
func (s *EntregaStore) GetItemByID(id int64) (*model.EntregaItem, error) {
	row := s.db.QueryRow(`SELECT `+entregaItemCols+` FROM entregas_items WHERE id = ?`, id)
	e, err := scanEntregaItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entrega: %w", err)
	}
	if err := s.loadPayments(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByOwner returns the owner's entregas, newest first, each with its
// payments and derived total.
func (s *EntregaStore) ListByOwner(ownerID int64) ([]model.EntregaItem, error) {
	rows, err := s.db.Query(
		`SELECT `+entregaItemCols+` FROM entregas_items WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entregas: %w", err)
	}
	defer rows.Close()

	var items []model.EntregaItem
	for rows.Next() {
		e, err := scanEntregaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entrega: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if err := s.loadPayments(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *EntregaStore) UpdateItem(id int64, e model.EntregaItem) (*model.EntregaItem, error) {
	_, err := s.db.Exec(
		`UPDATE entregas_items SET product_name = ?, brand = ?, client_name = ?, client_phone = ?, price = ?, is_finished = ? WHERE id = ?`,
		e.ProductName, e.Brand, e.ClientName, e.ClientPhone, e.Price, boolToInt(e.IsFinished), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update entrega: %w", err)
	}
	return s.GetItemByID(id)
}

// DeleteItem removes an entrega; its payments cascade at the schema level.
func (s *EntregaStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM entregas_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entrega: %w", err)
	}
	return nil
}

// AddPayment records a deposit and returns the item with its total
// recomputed from the payment set.
func (s *EntregaStore) AddPayment(itemID int64, amount float64) (*model.EntregaItem, error) {
	_, err := s.db.Exec(
		`INSERT INTO entregas_payments (entregas_item_id, amount) VALUES (?, ?)`,
		itemID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return s.GetItemByID(itemID)
}

// DeletePayment removes a deposit and returns the item with its total
// recomputed.
func (s *EntregaStore) DeletePayment(paymentID, itemID int64) (*model.EntregaItem, error) {
	_, err := s.db.Exec(
		`DELETE FROM entregas_payments WHERE id = ? AND entregas_item_id = ?`,
		paymentID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete payment: %w", err)
	}
	return s.GetItemByID(itemID)
}

func (s *EntregaStore) loadPayments(e *model.EntregaItem) error {
	rows, err := s.db.Query(
		`SELECT id, entregas_item_id, amount, created_at FROM entregas_payments WHERE entregas_item_id = ? ORDER BY created_at ASC, id ASC`,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()

	e.Payments = []model.EntregaPayment{}
	e.TotalPaid = 0
	for rows.Next() {
		var p model.EntregaPayment
		if err := rows.Scan(&p.ID, &p.ItemID, &p.Amount, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		e.Payments = append(e.Payments, p)
		e.TotalPaid += p.Amount
	}
	return rows.Err()
}
