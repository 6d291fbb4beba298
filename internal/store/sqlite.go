package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteParkingStore is the pure-Go, on-disk parking snapshot store
// selected with --store sqlite.
type SQLiteParkingStore struct {
	db *sql.DB
}

// OpenSQLiteParkingStore opens (creating if necessary) a SQLite database
// at path.
func OpenSQLiteParkingStore(path string) (*SQLiteParkingStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &SQLiteParkingStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteParkingStore) Close() error {
	return s.db.Close()
}

// CreateSchema creates the parking snapshot table.
func (s *SQLiteParkingStore) CreateSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS parking_snapshots (
		center_x       INTEGER NOT NULL,
		center_y       INTEGER NOT NULL,
		vacancy_status TEXT NOT NULL,
		name           TEXT NOT NULL DEFAULT '',
		fee_text       TEXT NOT NULL DEFAULT '',
		updated_at     TEXT NOT NULL,
		PRIMARY KEY (center_x, center_y)
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Upsert stores or refreshes one parking lot's snapshot.
func (s *SQLiteParkingStore) Upsert(p ParkingSnapshot) error {
	const q = `
	INSERT INTO parking_snapshots (center_x, center_y, vacancy_status, name, fee_text, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (center_x, center_y) DO UPDATE SET
		vacancy_status = excluded.vacancy_status,
		name           = excluded.name,
		fee_text       = excluded.fee_text,
		updated_at     = excluded.updated_at`
	_, err := s.db.Exec(q, p.CenterX, p.CenterY, p.VacancyStatus, p.Name, p.FeeText, p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert parking snapshot: %w", err)
	}
	return nil
}

// List returns every stored parking snapshot.
func (s *SQLiteParkingStore) List() ([]ParkingSnapshot, error) {
	rows, err := s.db.Query(`SELECT center_x, center_y, vacancy_status, name, fee_text, updated_at FROM parking_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("list parking snapshots: %w", err)
	}
	defer rows.Close()

	var out []ParkingSnapshot
	for rows.Next() {
		var p ParkingSnapshot
		var updatedAt string
		if err := rows.Scan(&p.CenterX, &p.CenterY, &p.VacancyStatus, &p.Name, &p.FeeText, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan parking snapshot: %w", err)
		}
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		p.UpdatedAt = t
		out = append(out, p)
	}
	return out, rows.Err()
}
