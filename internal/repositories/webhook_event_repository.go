package repositories

import (
	"context"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// WebhookEventRepository is the idempotency ledger for Stripe webhook
// deliveries, keyed by the Stripe event id.
type WebhookEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	Insert(ctx context.Context, e *models.WebhookEvent) error
}

type webhookEventRepo struct {
	db DB
}

func NewWebhookEventRepository(db DB) WebhookEventRepository {
	return &webhookEventRepo{db: db}
}

func (r *webhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM webhook_events WHERE id = $1)`, eventID,
	).Scan(&exists)
	return exists, err
}

func (r *webhookEventRepo) Insert(ctx context.Context, e *models.WebhookEvent) error {
	// The unique primary key makes concurrent re-deliveries of the same
	// event converge on a single ledger row.
	_, err := r.db.Exec(ctx, `
		INSERT INTO webhook_events (id, type, payload, received_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Type, e.Payload)
	return err
}
