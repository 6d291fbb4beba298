// Package bus publishes decoded typed data-units onto NATS subjects, one
// per data-unit kind.
package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subject prefixes mirror the data-unit parameter byte, per
// darc.dataunit.0x40 etc.
const subjectPrefix = "darc.dataunit."

// Publisher publishes decoded data-units to a NATS server.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials a NATS server at url (e.g. "nats://localhost:4222").
func Connect(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("bus: connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Subject returns the subject a given data-unit parameter publishes on.
func Subject(parameter byte) string {
	return fmt.Sprintf("%s0x%02X", subjectPrefix, parameter)
}

// Publish JSON-encodes payload and publishes it on the subject for
// parameter.
func (p *Publisher) Publish(parameter byte, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bus: marshal: %w", err)
	}
	if err := p.conn.Publish(Subject(parameter), data); err != nil {
		return fmt.Errorf("bus: publish: %w", err)
	}
	return nil
}

// Flush blocks until all buffered messages have been sent.
func (p *Publisher) Flush() error {
	return p.conn.Flush()
}
