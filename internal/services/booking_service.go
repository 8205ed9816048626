package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// BookingService covers booking reads and the manual post-round completion
// step. Payment-driven transitions live in WebhookService.
type BookingService struct {
	bookingRepo repositories.BookingRepository
	listingRepo repositories.ListingRepository
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	listingRepo repositories.ListingRepository,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
	}
}

// GetBooking returns the booking when the requester is its guest or the host
// of the listed tee time.
func (s *BookingService) GetBooking(ctx context.Context, requesterID uuid.UUID, id int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Booking not found",
		}
	}

	if booking.GuestID != requesterID {
		listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
		if err != nil {
			return nil, err
		}
		if listing == nil || listing.HostID != requesterID {
			return nil, &utils.AppError{
				StatusCode: http.StatusForbidden,
				Code:       utils.ErrCodeForbidden,
				Message:    "Forbidden",
			}
		}
	}

	return booking, nil
}

// CompleteBooking lets the host mark a confirmed booking as played.
func (s *BookingService) CompleteBooking(ctx context.Context, hostID uuid.UUID, id int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Booking not found",
		}
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.HostID != hostID {
		return nil, &utils.AppError{
			StatusCode: http.StatusForbidden,
			Code:       utils.ErrCodeForbidden,
			Message:    "Forbidden",
		}
	}

	moved, err := s.bookingRepo.TransitionStatus(ctx, id,
		models.BookingStatusConfirmed, models.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    "Only a confirmed booking can be completed",
		}
	}

	return s.bookingRepo.GetByID(ctx, id)
}
