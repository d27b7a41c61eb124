package store

import (
	"database/sql"
	"fmt"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func scanProduct(scanner interface{ Scan(...any) error }) (*model.SavedProduct, error) {
	var p model.SavedProduct
	var price sql.NullFloat64
	err := scanner.Scan(&p.ID, &p.OwnerID, &p.Name, &price, &p.Brand, &p.Model, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p.DefaultPrice = &price.Float64
	}
	return &p, nil
}

const productCols = `id, owner_id, name, default_price, brand, model, created_at`

// Save upserts a catalog entry by name (case-insensitive per owner), so
// adding the same product again refreshes its default price and tags.
func (s *ProductStore) Save(ownerID int64, name string, defaultPrice *float64, brand, model string) (*model.SavedProduct, error) {
	result, err := s.db.Exec(
		`INSERT INTO saved_products (owner_id, name, default_price, brand, model) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (owner_id, name) DO UPDATE SET default_price = excluded.default_price, brand = excluded.brand, model = excluded.model`,
		ownerID, name, nullFloat(defaultPrice), brand, model,
	)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil && id != 0 {
		if p, err := s.GetByID(id); err == nil && p != nil {
			return p, nil
		}
	}
	return s.GetByName(ownerID, name)
}

func (s *ProductStore) GetByID(id int64) (*model.SavedProduct, error) {
	row := s.db.QueryRow(`SELECT `+productCols+` FROM saved_products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName looks up a catalog entry case-insensitively.
func (s *ProductStore) GetByName(ownerID int64, name string) (*model.SavedProduct, error) {
	row := s.db.QueryRow(
		`SELECT `+productCols+` FROM saved_products WHERE owner_id = ? AND name = ? COLLATE NOCASE`,
		ownerID, name,
	)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// ListByOwner returns the owner's catalog sorted by name.
func (s *ProductStore) ListByOwner(ownerID int64) ([]model.SavedProduct, error) {
	rows, err := s.db.Query(
		`SELECT `+productCols+` FROM saved_products WHERE owner_id = ? ORDER BY name COLLATE NOCASE ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Suggest returns catalog entries whose name contains the query,
// case-insensitively, for add-item pre-fill.
func (s *ProductStore) Suggest(ownerID int64, query string, limit int) ([]model.SavedProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+productCols+` FROM saved_products
		 WHERE owner_id = ? AND name LIKE '%' || ? || '%' COLLATE NOCASE
		 ORDER BY name COLLATE NOCASE ASC LIMIT ?`,
		ownerID, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("suggest products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *ProductStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM saved_products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func collectProducts(rows *sql.Rows) ([]model.SavedProduct, error) {
	var products []model.SavedProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
