package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/skyetechdotio/Club-Key-sub001/internal/dtos"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// ListingService covers host-side tee time listing management.
type ListingService struct {
	listingRepo repositories.ListingRepository
	bookingRepo repositories.BookingRepository
	clubRepo    repositories.ClubRepository
}

func NewListingService(
	listingRepo repositories.ListingRepository,
	bookingRepo repositories.BookingRepository,
	clubRepo repositories.ClubRepository,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		clubRepo:    clubRepo,
	}
}

// CreateListing publishes a new tee time in the available status.
func (s *ListingService) CreateListing(ctx context.Context, hostID uuid.UUID, req *dtos.CreateListingRequest) (*models.Listing, error) {
	club, err := s.clubRepo.GetByID(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Club not found",
		}
	}

	if !req.TeeTime.After(time.Now()) {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "Tee time must be in the future",
		}
	}

	listing := &models.Listing{
		HostID:         hostID,
		ClubID:         req.ClubID,
		TeeTime:        req.TeeTime,
		PricePerPlayer: req.PricePerPlayer,
		PlayersAllowed: req.PlayersAllowed,
		Notes:          req.Notes,
		Status:         models.ListingStatusAvailable,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// CancelListing takes a host's listing off the marketplace. A listing with a
// payment in flight or a confirmed booking cannot be cancelled here; the
// refund path handles those.
func (s *ListingService) CancelListing(ctx context.Context, hostID uuid.UUID, id int64) error {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing == nil {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Listing not found",
		}
	}
	if listing.HostID != hostID {
		return &utils.AppError{
			StatusCode: http.StatusForbidden,
			Code:       utils.ErrCodeForbidden,
			Message:    "Forbidden",
		}
	}
	if listing.Status == models.ListingStatusPendingPayment || listing.Status == models.ListingStatusBooked {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    "Listing has an active booking and cannot be cancelled",
		}
	}

	ok, err := s.listingRepo.CancelByHost(ctx, id, hostID)
	if err != nil {
		return err
	}
	if !ok {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    "Listing is already cancelled",
		}
	}
	return nil
}
