package dtos

import (
	"time"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

type CreateListingRequest struct {
	ClubID         int64     `json:"club_id" validate:"required,gt=0"`
	TeeTime        time.Time `json:"tee_time" validate:"required"`
	PricePerPlayer float64   `json:"price_per_player" validate:"required,gt=0"`
	PlayersAllowed int       `json:"players_allowed" validate:"required,gte=1,lte=4"`
	Notes          *string   `json:"notes,omitempty"`
}

type ListingResponse struct {
	ID             int64     `json:"id"`
	HostID         string    `json:"host_id"`
	ClubID         int64     `json:"club_id"`
	TeeTime        time.Time `json:"tee_time"`
	PricePerPlayer float64   `json:"price_per_player"`
	PlayersAllowed int       `json:"players_allowed"`
	Notes          *string   `json:"notes,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewListingResponse(l *models.Listing) *ListingResponse {
	return &ListingResponse{
		ID:             l.ID,
		HostID:         l.HostID.String(),
		ClubID:         l.ClubID,
		TeeTime:        l.TeeTime,
		PricePerPlayer: l.PricePerPlayer,
		PlayersAllowed: l.PlayersAllowed,
		Notes:          l.Notes,
		Status:         string(l.Status),
		CreatedAt:      l.CreatedAt,
	}
}
