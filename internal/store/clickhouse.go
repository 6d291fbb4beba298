package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseSink batch-inserts decoded typed data-units into ClickHouse,
// one row per data unit. Grounded on internal/storage/clickhouse.go's
// ClickHouseDB.
type ClickHouseSink struct {
	conn driver.Conn
}

// OpenClickHouseSink opens a connection to ClickHouse.
func OpenClickHouseSink(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseSink, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return &ClickHouseSink{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (s *ClickHouseSink) Close() error {
	return s.conn.Close()
}

// CreateSchema creates the data-unit event table.
func (s *ClickHouseSink) CreateSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS dataunit_events (
		timestamp      DateTime64(3),
		kind           LowCardinality(String),
		service_id     LowCardinality(String),
		group_number   UInt16,
		payload_json   String
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (kind, service_id, timestamp)
	SETTINGS index_granularity = 8192`

	if err := s.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertBatch stores a batch of decoded data-unit records.
func (s *ClickHouseSink) InsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO dataunit_events (timestamp, kind, service_id, group_number, payload_json)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		if err := batch.Append(r.Timestamp, r.Kind, r.ServiceID, uint16(r.GroupNumber), r.Payload); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
