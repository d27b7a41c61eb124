package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

// Share codes use a reduced alphabet (no 0/O/1/I) so they survive being
// read aloud or handwritten on a card.
const (
	shareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	shareCodeLength   = 6
	shareCodeAttempts = 10
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var archived int
	err := scanner.Scan(
		&l.ID, &l.OwnerID, &l.Name, &l.BabyName, &l.FatherName, &l.MotherName,
		&l.Phone, &l.ShareCode, &archived, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.IsArchived = archived != 0
	return &l, nil
}

const listCols = `id, owner_id, name, baby_name, father_name, mother_name, phone, share_code, is_archived, created_at, updated_at`

func randomShareCode() (string, error) {
	buf := make([]byte, shareCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share code: %w", err)
	}
	for i, b := range buf {
		buf[i] = shareCodeAlphabet[int(b)%len(shareCodeAlphabet)]
	}
	return string(buf), nil
}

// Create inserts a list with a freshly generated unique share code.
func (s *ListStore) Create(ownerID int64, babyName, fatherName, motherName, phone string) (*model.ShoppingList, error) {
	for attempt := 0; attempt < shareCodeAttempts; attempt++ {
		code, err := randomShareCode()
		if err != nil {
			return nil, err
		}

		var exists int
		err = s.db.QueryRow(`SELECT COUNT(*) FROM shopping_lists WHERE share_code = ?`, code).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check share code: %w", err)
		}
		if exists > 0 {
			continue
		}

		result, err := s.db.Exec(
			`INSERT INTO shopping_lists (owner_id, name, baby_name, father_name, mother_name, phone, share_code)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ownerID, babyName, babyName, fatherName, motherName, phone, code,
		)
		if err != nil {
			return nil, fmt.Errorf("insert list: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		return s.GetByID(id)
	}
	return nil, fmt.Errorf("generate share code: exhausted %d attempts", shareCodeAttempts)
}

func (s *ListStore) GetByID(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// GetByCode resolves a share code case-insensitively.
func (s *ListStore) GetByCode(code string) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE share_code = ?`, code)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list by code: %w", err)
	}
	return l, nil
}

// ListByOwner returns the owner's lists, newest first.
func (s *ListStore) ListByOwner(ownerID int64) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(
		`SELECT `+listCols+` FROM shopping_lists WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ListStore) Update(id int64, babyName, fatherName, motherName, phone string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ?, baby_name = ?, father_name = ?, mother_name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		babyName, babyName, fatherName, motherName, phone, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	return s.GetByID(id)
}

// SetArchived toggles the archived flag. Archived lists stay readable by
// the owner but the public code path refuses their contents.
func (s *ListStore) SetArchived(id int64, archived bool) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET is_archived = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolToInt(archived), id,
	)
	if err != nil {
		return nil, fmt.Errorf("set archived: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a list; items cascade at the schema level.
func (s *ListStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
