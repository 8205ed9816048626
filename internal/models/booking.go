package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusType defines the possible states of a booking.
type BookingStatusType string

const (
	BookingStatusPaymentPending BookingStatusType = "payment_pending"
	BookingStatusConfirmed      BookingStatusType = "confirmed"
	BookingStatusPaymentFailed  BookingStatusType = "payment_failed"
	BookingStatusRefunded       BookingStatusType = "refunded"
	BookingStatusCompleted      BookingStatusType = "completed"
	BookingStatusCancelled      BookingStatusType = "cancelled"
)

// Booking is a guest's reservation attempt against a listing. It is created
// in payment_pending by the payment intent flow; every transition after that
// is driven by Stripe webhook events, keyed on PaymentIntentID.
//
// The price breakdown is computed exactly once at creation and never
// recomputed: TotalAmount = HostAmount + GuestFee, all in dollars with
// 2-decimal rounding.
type Booking struct {
	ID              int64             `json:"id"`
	ListingID       int64             `json:"listing_id"`
	GuestID         uuid.UUID         `json:"guest_id"`
	NumberOfPlayers int               `json:"number_of_players"`
	TotalAmount     float64           `json:"total_amount"`
	HostAmount      float64           `json:"host_amount"`
	GuestFee        float64           `json:"guest_fee"`
	ApplicationFee  float64           `json:"application_fee"`
	Status          BookingStatusType `json:"status"`
	PaymentIntentID *string           `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}
