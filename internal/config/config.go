// Package config builds the reference CLI's Config from flags, with no
// config-file or environment-variable layer: flags only, stdlib flag
// package, nothing else.
package config

import (
	"flag"
	"fmt"
)

// Config holds the reference driver's command-line options.
type Config struct {
	LogLevel    string
	Host        string
	Port        int
	CORSOrigins []string
	InputPath   string

	// Store selects the optional durable sink for decoded typed
	// data-units and the parking snapshot: "", "sqlite", "postgres", or
	// "clickhouse". Empty disables persistence entirely.
	Store         string
	StoreHost     string
	StorePort     int
	StoreDatabase string
	StoreUser     string
	StorePassword string
	StorePath     string // sqlite file path

	// NATSURL, when non-empty, publishes every decoded typed data-unit
	// to a NATS server at this address.
	NATSURL string
}

// corsList collects repeated --cors flag occurrences.
type corsList struct {
	values *[]string
}

func (c corsList) String() string {
	if c.values == nil {
		return ""
	}
	return fmt.Sprint(*c.values)
}

func (c corsList) Set(v string) error {
	*c.values = append(*c.values, v)
	return nil
}

// Parse builds a Config from args (excluding the program name), matching
// `decode_darc [-l|--log-level LEVEL] [--host HOST] [--port PORT] [--cors ORIGIN...]
// [--store BACKEND] [--store-host HOST] [--store-port PORT] [--store-db NAME]
// [--store-user USER] [--store-password PASS] [--store-path PATH]
// [--nats-url URL] <path|->`.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("decode_darc", flag.ContinueOnError)
	cfg := Config{LogLevel: "INFO", Host: "localhost", Port: 8080, StorePort: 5432, StorePath: "parking.db"}

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: DEBUG, INFO, WARNING, ERROR, CRITICAL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "shorthand for --log-level")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "map server bind host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "map server bind port")
	fs.Var(corsList{&cfg.CORSOrigins}, "cors", "allowed CORS origin (repeatable)")

	fs.StringVar(&cfg.Store, "store", cfg.Store, "durable sink for decoded records: sqlite, postgres, clickhouse (default: none)")
	fs.StringVar(&cfg.StoreHost, "store-host", "localhost", "store backend host (postgres/clickhouse)")
	fs.IntVar(&cfg.StorePort, "store-port", cfg.StorePort, "store backend port (postgres/clickhouse)")
	fs.StringVar(&cfg.StoreDatabase, "store-db", "darc", "store backend database name (postgres/clickhouse)")
	fs.StringVar(&cfg.StoreUser, "store-user", "darc", "store backend user (postgres/clickhouse)")
	fs.StringVar(&cfg.StorePassword, "store-password", "", "store backend password (postgres/clickhouse)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "sqlite database file path")

	fs.StringVar(&cfg.NATSURL, "nats-url", "", "NATS server URL to publish decoded data-units to (default: disabled)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return Config{}, fmt.Errorf("config: expected exactly one input path argument, got %d", len(rest))
	}
	cfg.InputPath = rest[0]
	return cfg, nil
}
