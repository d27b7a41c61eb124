package store

import (
	"database/sql"
	"fmt"
	"time"
)

// BackupRecord is one completed snapshot upload.
type BackupRecord struct {
	ID        int64     `json:"id"`
	ObjectKey string    `json:"object_key"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type BackupStore struct {
	db *sql.DB
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db}
}

func (s *BackupStore) Create(objectKey string, sizeBytes int64) (*BackupRecord, error) {
	result, err := s.db.Exec(
		`INSERT INTO backups (object_key, size_bytes) VALUES (?, ?)`,
		objectKey, sizeBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert backup record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT id, object_key, size_bytes, created_at FROM backups WHERE id = ?`, id)
	var rec BackupRecord
	if err := row.Scan(&rec.ID, &rec.ObjectKey, &rec.SizeBytes, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("get backup record: %w", err)
	}
	return &rec, nil
}

// ListRecent returns the newest backup records first.
func (s *BackupStore) ListRecent(limit int) ([]BackupRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, object_key, size_bytes, created_at FROM backups ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var records []BackupRecord
	for rows.Next() {
		var rec BackupRecord
		if err := rows.Scan(&rec.ID, &rec.ObjectKey, &rec.SizeBytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
