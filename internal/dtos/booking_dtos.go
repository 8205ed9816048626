package dtos

import (
	"time"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// CreatePaymentIntentRequest starts the escrowed booking flow for a tee time.
type CreatePaymentIntentRequest struct {
	TeeTimeID       int64 `json:"tee_time_id" validate:"required,gt=0"`
	NumberOfPlayers int   `json:"number_of_players" validate:"required,gte=1"`
}

// PaymentIntentResponse returns the client secret the guest's payment sheet
// completes, plus the full price breakdown in dollars.
type PaymentIntentResponse struct {
	ClientSecret   string  `json:"client_secret"`
	BookingID      int64   `json:"booking_id"`
	Amount         float64 `json:"amount"`
	HostAmount     float64 `json:"host_amount"`
	GuestFee       float64 `json:"guest_fee"`
	ApplicationFee float64 `json:"application_fee"`
	Success        bool    `json:"success"`
}

type BookingResponse struct {
	ID              int64      `json:"id"`
	ListingID       int64      `json:"listing_id"`
	GuestID         string     `json:"guest_id"`
	NumberOfPlayers int        `json:"number_of_players"`
	TotalAmount     float64    `json:"total_amount"`
	HostAmount      float64    `json:"host_amount"`
	GuestFee        float64    `json:"guest_fee"`
	ApplicationFee  float64    `json:"application_fee"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func NewBookingResponse(b *models.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		ListingID:       b.ListingID,
		GuestID:         b.GuestID.String(),
		NumberOfPlayers: b.NumberOfPlayers,
		TotalAmount:     b.TotalAmount,
		HostAmount:      b.HostAmount,
		GuestFee:        b.GuestFee,
		ApplicationFee:  b.ApplicationFee,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		CompletedAt:     b.CompletedAt,
	}
}
