package store

import (
	"database/sql"
	"fmt"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

type EncargoStore struct {
	db *sql.DB
}

func NewEncargoStore(db *sql.DB) *EncargoStore {
	return &EncargoStore{db: db}
}

func scanEncargo(scanner interface{ Scan(...any) error }) (*model.Encargo, error) {
	var e model.Encargo
	var price sql.NullFloat64
	var ordered, pickedUp int
	err := scanner.Scan(
		&e.ID, &e.OwnerID, &e.ProductName, &e.Brand, &e.ClientName, &e.ClientPhone,
		&price, &e.Deposit, &e.Observations, &ordered, &pickedUp, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		e.Price = &price.Float64
	}
	e.IsOrdered = ordered != 0
	e.IsPickedUp = pickedUp != 0
	return &e, nil
}

const encargoCols = `id, owner_id, product_name, brand, client_name, client_phone, price, deposit, observations, is_ordered, is_picked_up, created_at`

func (s *EncargoStore) Create(ownerID int64, e model.Encargo) (*model.Encargo, error) {
	result, err := s.db.Exec(
		`INSERT INTO encargos (owner_id, product_name, brand, client_name, client_phone, price, deposit, observations, is_ordered, is_picked_up)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, e.ProductName, e.Brand, e.ClientName, e.ClientPhone,
		nullFloat(e.Price), e.Deposit, e.Observations, boolToInt(e.IsOrdered), boolToInt(e.IsPickedUp),
	)
	if err != nil {
		return nil, fmt.Errorf("insert encargo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EncargoStore) GetByID(id int64) (*model.Encargo, error) {
	row := s.db.QueryRow(`SELECT `+encargoCols+` FROM encargos WHERE id = ?`, id)
	e, err := scanEncargo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get encargo: %w", err)
	}
	return e, nil
}

// ListByOwner returns the owner's encargos, newest first.
func (s *EncargoStore) ListByOwner(ownerID int64) ([]model.Encargo, error) {
	rows, err := s.db.Query(
		`SELECT `+encargoCols+` FROM encargos WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list encargos: %w", err)
	}
	defer rows.Close()

	var encargos []model.Encargo
	for rows.Next() {
		e, err := scanEncargo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan encargo: %w", err)
		}
		encargos = append(encargos, *e)
	}
	return encargos, rows.Err()
}

func (s *EncargoStore) Update(id int64, e model.Encargo) (*model.Encargo, error) {
	_, err := s.db.Exec(
		`UPDATE encargos SET product_name = ?, brand = ?, client_name = ?, client_phone = ?, price = ?, deposit = ?, observations = ?, is_ordered = ?, is_picked_up = ? WHERE id = ?`,
		e.ProductName, e.Brand, e.ClientName, e.ClientPhone,
		nullFloat(e.Price), e.Deposit, e.Observations, boolToInt(e.IsOrdered), boolToInt(e.IsPickedUp), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update encargo: %w", err)
	}
	return s.GetByID(id)
}

func (s *EncargoStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM encargos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete encargo: %w", err)
	}
	return nil
}
