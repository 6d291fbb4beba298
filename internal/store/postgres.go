package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// ParkingSnapshot is one parking lot's current status, keyed by its mesh
// center coordinate. Grounded on parking_store.py's ParkingStore.upsert,
// made durable instead of in-process-only.
type ParkingSnapshot struct {
	CenterX       uint16
	CenterY       uint16
	VacancyStatus string
	Name          string
	FeeText       string
	UpdatedAt     time.Time
}

// PostgresParkingStore is a durable, upsert-by-coordinate parking
// snapshot store backed by a pgx connection pool. Grounded on
// internal/storage/postgres.go's PostgresDB.
type PostgresParkingStore struct {
	pool *pgxpool.Pool
}

// OpenPostgresParkingStore opens a connection pool to PostgreSQL.
func OpenPostgresParkingStore(ctx context.Context, cfg PostgresConfig) (*PostgresParkingStore, error) {
	escapedPassword := url.QueryEscape(cfg.Password)
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, escapedPassword, cfg.Host, cfg.Port, cfg.Database, sslMode)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresParkingStore{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (s *PostgresParkingStore) Close() {
	s.pool.Close()
}

// CreateSchema creates the parking snapshot table.
func (s *PostgresParkingStore) CreateSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS parking_snapshots (
		center_x       INTEGER NOT NULL,
		center_y       INTEGER NOT NULL,
		vacancy_status TEXT NOT NULL,
		name           TEXT NOT NULL DEFAULT '',
		fee_text       TEXT NOT NULL DEFAULT '',
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (center_x, center_y)
	)`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Upsert stores or refreshes one parking lot's snapshot.
func (s *PostgresParkingStore) Upsert(ctx context.Context, p ParkingSnapshot) error {
	const q = `
	INSERT INTO parking_snapshots (center_x, center_y, vacancy_status, name, fee_text, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (center_x, center_y) DO UPDATE SET
		vacancy_status = EXCLUDED.vacancy_status,
		name           = EXCLUDED.name,
		fee_text       = EXCLUDED.fee_text,
		updated_at     = EXCLUDED.updated_at`
	_, err := s.pool.Exec(ctx, q, int32(p.CenterX), int32(p.CenterY), p.VacancyStatus, p.Name, p.FeeText, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert parking snapshot: %w", err)
	}
	return nil
}

// List returns every stored parking snapshot.
func (s *PostgresParkingStore) List(ctx context.Context) ([]ParkingSnapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT center_x, center_y, vacancy_status, name, fee_text, updated_at FROM parking_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("list parking snapshots: %w", err)
	}
	defer rows.Close()

	var out []ParkingSnapshot
	for rows.Next() {
		var p ParkingSnapshot
		var centerX, centerY int32
		if err := rows.Scan(&centerX, &centerY, &p.VacancyStatus, &p.Name, &p.FeeText, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan parking snapshot: %w", err)
		}
		p.CenterX, p.CenterY = uint16(centerX), uint16(centerY)
		out = append(out, p)
	}
	return out, rows.Err()
}
