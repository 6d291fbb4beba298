// Package store provides optional durable sinks for decoded typed
// data-units: a ClickHouse batch-insert sink for the full event stream,
// and a Postgres- or SQLite-backed parking snapshot store keyed by
// coordinate. None of this lives on the core decode path — it is a
// presentation/derived layer the driver wires in when configured.
package store

import "time"

// Record is one decoded typed data-unit, flattened for storage: Kind
// identifies which of the four data-unit decoders produced Payload
// (JSON-encoded), and ServiceID/GroupNumber trace it back to its Layer 4
// origin.
type Record struct {
	Timestamp   time.Time
	Kind        string // "congestion", "restriction", "parking", "section_tt"
	ServiceID   string
	GroupNumber int
	Payload     string // JSON-encoded typed decoder output
}
