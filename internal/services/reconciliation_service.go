package services

import (
	"context"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/skyetechdotio/Club-Key-sub001/internal/constants"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// ReconciliationService repairs listings stranded in pending_payment.
// Booking status is authoritative; listing status is a denormalized
// availability view that can drift when a soft-warning update fails or a
// guest abandons the payment sheet.
type ReconciliationService struct {
	listingRepo repositories.ListingRepository
	bookingRepo repositories.BookingRepository
	gateway     PaymentIntentGateway
}

func NewReconciliationService(
	listingRepo repositories.ListingRepository,
	bookingRepo repositories.BookingRepository,
	gateway PaymentIntentGateway,
) *ReconciliationService {
	return &ReconciliationService{
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
	}
}

// Run scans listings that have sat in pending_payment beyond the grace
// period and realigns each with its latest booking.
func (s *ReconciliationService) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-constants.ReconciliationPendingGracePeriod)
	listings, err := s.listingRepo.FindByStatusUpdatedBefore(ctx, models.ListingStatusPendingPayment, cutoff)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return nil
	}

	utils.Logger.Infof("Reconciling %d listing(s) stuck in pending_payment", len(listings))
	for _, listing := range listings {
		if err := s.reconcileListing(ctx, listing); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to reconcile listing %d", listing.ID)
		}
	}
	return nil
}

func (s *ReconciliationService) reconcileListing(ctx context.Context, listing *models.Listing) error {
	booking, err := s.bookingRepo.GetLatestByListingID(ctx, listing.ID)
	if err != nil {
		return err
	}

	if booking == nil {
		// No booking was ever recorded; the reservation never completed.
		return s.release(ctx, listing)
	}

	switch booking.Status {
	case models.BookingStatusConfirmed, models.BookingStatusCompleted:
		// Payment succeeded but the webhook's listing update was lost.
		ok, err := s.listingRepo.UpdateStatusIf(ctx, listing.ID,
			models.ListingStatusPendingPayment, models.ListingStatusBooked)
		if err != nil {
			return err
		}
		if ok {
			utils.Logger.Infof("Reconciled listing %d to booked (booking %d is %s)", listing.ID, booking.ID, booking.Status)
		}
		return nil

	case models.BookingStatusPaymentPending:
		// Guest abandoned the payment sheet. Cancel the escrow intent so the
		// guest can never be charged for a released tee time. Check the intent
		// first: if it already succeeded the webhook was lost, and cancelling
		// would fail on every run while the guest sits on a paid booking.
		if booking.PaymentIntentID != nil && *booking.PaymentIntentID != "" {
			pi, err := s.gateway.GetPaymentIntent(ctx, *booking.PaymentIntentID)
			if err != nil {
				return err
			}
			if pi.Status == stripe.PaymentIntentStatusSucceeded {
				return s.recoverPaidBooking(ctx, listing, booking)
			}
			if err := s.gateway.CancelPaymentIntent(ctx, *booking.PaymentIntentID); err != nil {
				return err
			}
		}
		moved, err := s.bookingRepo.TransitionStatus(ctx, booking.ID,
			models.BookingStatusPaymentPending, models.BookingStatusPaymentFailed)
		if err != nil {
			return err
		}
		if !moved {
			// A webhook landed between the scan and now; next run re-checks.
			utils.Logger.Infof("Booking %d changed status mid-reconciliation; skipping listing %d", booking.ID, listing.ID)
			return nil
		}
		utils.Logger.Infof("Expired abandoned booking %d for listing %d", booking.ID, listing.ID)
		return s.release(ctx, listing)

	default:
		// payment_failed, refunded, cancelled: the tee time should be back
		// on the marketplace.
		return s.release(ctx, listing)
	}
}

// recoverPaidBooking confirms a booking whose payment succeeded but whose
// success webhook never arrived.
func (s *ReconciliationService) recoverPaidBooking(ctx context.Context, listing *models.Listing, booking *models.Booking) error {
	moved, err := s.bookingRepo.TransitionByPaymentIntent(ctx, *booking.PaymentIntentID,
		models.BookingStatusPaymentPending, models.BookingStatusConfirmed, true)
	if err != nil {
		return err
	}
	if moved {
		utils.Logger.Infof("Recovered paid booking %d for listing %d from a lost webhook", booking.ID, listing.ID)
	}
	_, err = s.listingRepo.UpdateStatusIf(ctx, listing.ID,
		models.ListingStatusPendingPayment, models.ListingStatusBooked)
	return err
}

func (s *ReconciliationService) release(ctx context.Context, listing *models.Listing) error {
	ok, err := s.listingRepo.UpdateStatusIf(ctx, listing.ID,
		models.ListingStatusPendingPayment, models.ListingStatusAvailable)
	if err != nil {
		return err
	}
	if ok {
		utils.Logger.Infof("Reconciled listing %d back to available", listing.ID)
	}
	return nil
}
