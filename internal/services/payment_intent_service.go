package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/skyetechdotio/Club-Key-sub001/internal/config"
	"github.com/skyetechdotio/Club-Key-sub001/internal/constants"
	"github.com/skyetechdotio/Club-Key-sub001/internal/dtos"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// PaymentIntentService reserves a listing and records a pending booking in
// exchange for a Stripe client secret the guest's browser completes payment
// with. The PaymentIntent is manual-capture: funds are held in escrow until
// capture, with the platform's application fee and a destination transfer to
// the host's connected account.
type PaymentIntentService struct {
	cfg         *config.Config
	listingRepo repositories.ListingRepository
	bookingRepo repositories.BookingRepository
	gateway     PaymentIntentGateway
	generatedBy string
}

func NewPaymentIntentService(
	cfg *config.Config,
	listingRepo repositories.ListingRepository,
	bookingRepo repositories.BookingRepository,
	gateway PaymentIntentGateway,
) *PaymentIntentService {
	return &PaymentIntentService{
		cfg:         cfg,
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		generatedBy: cfg.AppName,
	}
}

// CreateBookingIntent validates the request, prices the booking, creates the
// PaymentIntent, and records the booking and listing reservation.
//
// Ordering matters: the PaymentIntent is created first, then the booking row.
// If the booking insert fails, the intent is cancelled (compensating action)
// so no chargeable PaymentIntent is left without a corresponding booking.
// The listing status update comes last and only warns on failure — the
// booking and intent are already valid, and the webhook path or the
// reconciliation job will repair a stale listing status.
func (s *PaymentIntentService) CreateBookingIntent(
	ctx context.Context,
	guestID uuid.UUID,
	req *dtos.CreatePaymentIntentRequest,
) (*dtos.PaymentIntentResponse, error) {
	// The status filter makes the availability check and the race gate one
	// and the same: a listing in any non-available status simply isn't found.
	listing, err := s.listingRepo.GetAvailableForBooking(ctx, req.TeeTimeID)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error",
			Err:        err,
		}
	}
	if listing == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Tee time not found or not available",
		}
	}

	if req.NumberOfPlayers > listing.PlayersAllowed {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    fmt.Sprintf("This tee time allows at most %d players", listing.PlayersAllowed),
		}
	}

	if listing.Host.StripeConnectAccountID == nil || *listing.Host.StripeConnectAccountID == "" {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodePaymentSetupIncomplete,
			Message:    "Host has not connected their Stripe account",
		}
	}

	quote := QuoteBooking(listing.PricePerPlayer, req.NumberOfPlayers)

	pi, err := s.gateway.CreatePaymentIntent(ctx, CreateIntentParams{
		Amount:               quote.TotalAmount,
		ApplicationFee:       quote.ApplicationFee,
		DestinationAccountID: *listing.Host.StripeConnectAccountID,
		Metadata: map[string]string{
			constants.MetadataTeeTimeIDKey:          fmt.Sprintf("%d", listing.ID),
			constants.MetadataGuestIDKey:            guestID.String(),
			constants.MetadataNumberOfPlayersKey:    fmt.Sprintf("%d", req.NumberOfPlayers),
			constants.MetadataHostIDKey:             listing.HostID.String(),
			constants.MetadataClubNameKey:           listing.Club.Name,
			constants.MetadataHostAmountKey:         fmt.Sprintf("%.2f", quote.HostAmount),
			constants.MetadataGuestFeeKey:           fmt.Sprintf("%.2f", quote.GuestFee),
			constants.MetadataApplicationFeeKey:     fmt.Sprintf("%.2f", quote.ApplicationFee),
			constants.WebhookMetadataGeneratedByKey: s.generatedBy,
		},
	})
	if err != nil {
		// Nothing has been written yet, so nothing to roll back.
		utils.Logger.WithError(err).Errorf("Failed to create PaymentIntent for listing %d", listing.ID)
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error",
			Err:        err,
		}
	}

	booking := &models.Booking{
		ListingID:       listing.ID,
		GuestID:         guestID,
		NumberOfPlayers: req.NumberOfPlayers,
		TotalAmount:     quote.TotalAmount,
		HostAmount:      quote.HostAmount,
		GuestFee:        quote.GuestFee,
		ApplicationFee:  quote.ApplicationFee,
		Status:          models.BookingStatusPaymentPending,
		PaymentIntentID: &pi.ID,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to create booking record for PaymentIntent %s; cancelling intent", pi.ID)
		if cancelErr := s.gateway.CancelPaymentIntent(ctx, pi.ID); cancelErr != nil {
			utils.Logger.WithError(cancelErr).Errorf("CRITICAL: Failed to cancel orphaned PaymentIntent %s", pi.ID)
		}
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to create booking record",
			Err:        err,
		}
	}

	ok, err := s.listingRepo.UpdateStatusIf(ctx, listing.ID, models.ListingStatusAvailable, models.ListingStatusPendingPayment)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to move listing %d to pending_payment; booking %d and PaymentIntent %s remain valid", listing.ID, booking.ID, pi.ID)
	} else if !ok {
		utils.Logger.Warnf("Listing %d was no longer available when reserving for booking %d", listing.ID, booking.ID)
	}

	return &dtos.PaymentIntentResponse{
		ClientSecret:   pi.ClientSecret,
		BookingID:      booking.ID,
		Amount:         quote.TotalAmount,
		HostAmount:     quote.HostAmount,
		GuestFee:       quote.GuestFee,
		ApplicationFee: quote.ApplicationFee,
		Success:        true,
	}, nil
}
