package models

import (
	"encoding/json"
	"time"
)

// WebhookEvent is an idempotency ledger entry, keyed by the Stripe event id.
// An id present in the ledger must never be processed a second time. Rows
// are inserted once and never updated or deleted.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}
