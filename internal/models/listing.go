package models

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatusType defines the possible states of a tee time listing.
type ListingStatusType string

const (
	ListingStatusAvailable      ListingStatusType = "available"
	ListingStatusPendingPayment ListingStatusType = "pending_payment"
	ListingStatusBooked         ListingStatusType = "booked"
	ListingStatusCancelled      ListingStatusType = "cancelled"
)

// Listing is a hosted, bookable tee time slot. Status only moves
// available -> pending_payment -> booked, pending_payment -> available
// (payment failed or refunded), or any non-terminal state -> cancelled by
// the host. Rows are never hard-deleted by the payment flow.
type Listing struct {
	ID             int64             `json:"id"`
	HostID         uuid.UUID         `json:"host_id"`
	ClubID         int64             `json:"club_id"`
	TeeTime        time.Time         `json:"tee_time"`
	PricePerPlayer float64           `json:"price_per_player"`
	PlayersAllowed int               `json:"players_allowed"`
	Notes          *string           `json:"notes,omitempty"`
	Status         ListingStatusType `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ListingDetail is a listing joined with its host and club, as needed by
// the payment intent flow.
type ListingDetail struct {
	Listing
	Host *Profile `json:"host"`
	Club *Club    `json:"club"`
}
