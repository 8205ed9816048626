package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a marketplace user. The ID is the auth provider's subject, so a
// bearer token's `sub` claim maps straight onto a profile row. A profile acts
// as a host once it owns listings; hosts must complete Stripe Connect
// onboarding before any of their listings can be booked.
type Profile struct {
	Versioned
	ID                     uuid.UUID `json:"id"`
	Email                  string    `json:"email"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	StripeConnectAccountID *string   `json:"stripe_connect_account_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (p *Profile) GetID() string {
	return p.ID.String()
}
