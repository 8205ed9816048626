package services

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// WebhookService applies verified Stripe events to booking and listing state.
// Every transition is conditional on the expected prior status, so replays,
// out-of-order deliveries, and events for intents we never created all land
// as logged no-ops.
type WebhookService struct {
	bookingRepo repositories.BookingRepository
	listingRepo repositories.ListingRepository
	eventRepo   repositories.WebhookEventRepository
	profileRepo repositories.ProfileRepository
	clubRepo    repositories.ClubRepository
	notifier    NotificationService
}

func NewWebhookService(
	bookingRepo repositories.BookingRepository,
	listingRepo repositories.ListingRepository,
	eventRepo repositories.WebhookEventRepository,
	profileRepo repositories.ProfileRepository,
	clubRepo repositories.ClubRepository,
	notifier NotificationService,
) *WebhookService {
	return &WebhookService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
		clubRepo:    clubRepo,
		notifier:    notifier,
	}
}

// RegisterEvent records the event in the idempotency ledger. It returns true
// when the event id was already recorded, meaning the caller must skip
// processing and acknowledge the delivery. Dedup is best-effort: a failed
// ledger write is logged and the event still gets dispatched, since every
// downstream transition is conditional and safe to replay.
func (s *WebhookService) RegisterEvent(ctx context.Context, event *stripe.Event) (bool, error) {
	seen, err := s.eventRepo.Exists(ctx, event.ID)
	if err != nil {
		return false, err
	}
	if seen {
		utils.Logger.Infof("Duplicate webhook event %s (%s); skipping", event.ID, event.Type)
		return true, nil
	}

	err = s.eventRepo.Insert(ctx, &models.WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: event.Data.Raw,
	})
	if err != nil {
		utils.Logger.WithError(err).Warnf("Could not record webhook event %s in ledger; processing anyway", event.ID)
	}
	return false, nil
}

// HandlePaymentIntentSucceeded confirms the booking for the intent and marks
// the listing booked.
func (s *WebhookService) HandlePaymentIntentSucceeded(ctx context.Context, pi *stripe.PaymentIntent) error {
	booking, err := s.bookingRepo.GetByPaymentIntentID(ctx, pi.ID)
	if err != nil {
		return err
	}
	if booking == nil {
		utils.Logger.Warnf("payment_intent.succeeded for unknown PaymentIntent %s; ignoring", pi.ID)
		return nil
	}

	moved, err := s.bookingRepo.TransitionByPaymentIntent(ctx, pi.ID,
		models.BookingStatusPaymentPending, models.BookingStatusConfirmed, true)
	if err != nil {
		return err
	}
	if !moved {
		utils.Logger.Infof("Booking %d not in payment_pending on payment_intent.succeeded (status %s); skipping", booking.ID, booking.Status)
		return nil
	}

	ok, err := s.listingRepo.UpdateStatusIf(ctx, booking.ListingID,
		models.ListingStatusPendingPayment, models.ListingStatusBooked)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to mark listing %d booked for booking %d", booking.ListingID, booking.ID)
	} else if !ok {
		utils.Logger.Warnf("Listing %d was not in pending_payment when confirming booking %d", booking.ListingID, booking.ID)
	}

	s.sendBookingEmails(ctx, booking, bookingEmailConfirmed)
	return nil
}

// HandlePaymentIntentFailed marks the booking failed and releases the listing
// for rebooking.
func (s *WebhookService) HandlePaymentIntentFailed(ctx context.Context, pi *stripe.PaymentIntent) error {
	booking, err := s.bookingRepo.GetByPaymentIntentID(ctx, pi.ID)
	if err != nil {
		return err
	}
	if booking == nil {
		utils.Logger.Warnf("payment_intent.payment_failed for unknown PaymentIntent %s; ignoring", pi.ID)
		return nil
	}

	moved, err := s.bookingRepo.TransitionByPaymentIntent(ctx, pi.ID,
		models.BookingStatusPaymentPending, models.BookingStatusPaymentFailed, false)
	if err != nil {
		return err
	}
	if !moved {
		utils.Logger.Infof("Booking %d not in payment_pending on payment_intent.payment_failed (status %s); skipping", booking.ID, booking.Status)
		return nil
	}

	ok, err := s.listingRepo.UpdateStatusIf(ctx, booking.ListingID,
		models.ListingStatusPendingPayment, models.ListingStatusAvailable)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to release listing %d after failed payment for booking %d", booking.ListingID, booking.ID)
	} else if !ok {
		utils.Logger.Warnf("Listing %d was not in pending_payment when failing booking %d", booking.ListingID, booking.ID)
	}

	s.sendBookingEmails(ctx, booking, bookingEmailPaymentFailed)
	return nil
}

// HandleChargeRefunded moves a confirmed booking to refunded and returns the
// listing to the marketplace.
func (s *WebhookService) HandleChargeRefunded(ctx context.Context, ch *stripe.Charge) error {
	if ch.PaymentIntent == nil || ch.PaymentIntent.ID == "" {
		utils.Logger.Warnf("charge.refunded event for charge %s has no PaymentIntent; ignoring", ch.ID)
		return nil
	}
	paymentIntentID := ch.PaymentIntent.ID

	booking, err := s.bookingRepo.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if booking == nil {
		utils.Logger.Warnf("charge.refunded for unknown PaymentIntent %s; ignoring", paymentIntentID)
		return nil
	}

	moved, err := s.bookingRepo.TransitionByPaymentIntent(ctx, paymentIntentID,
		models.BookingStatusConfirmed, models.BookingStatusRefunded, false)
	if err != nil {
		return err
	}
	if !moved {
		utils.Logger.Infof("Booking %d not in confirmed on charge.refunded (status %s); skipping", booking.ID, booking.Status)
		return nil
	}

	ok, err := s.listingRepo.UpdateStatusIf(ctx, booking.ListingID,
		models.ListingStatusBooked, models.ListingStatusAvailable)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to release listing %d after refund of booking %d", booking.ListingID, booking.ID)
	} else if !ok {
		utils.Logger.Warnf("Listing %d was not in booked when refunding booking %d", booking.ListingID, booking.ID)
	}

	s.sendBookingEmails(ctx, booking, bookingEmailRefunded)
	return nil
}

type bookingEmailKind int

const (
	bookingEmailConfirmed bookingEmailKind = iota
	bookingEmailPaymentFailed
	bookingEmailRefunded
)

// sendBookingEmails is best-effort: the state transition has already
// committed, so lookup or delivery failures are logged and swallowed.
func (s *WebhookService) sendBookingEmails(ctx context.Context, booking *models.Booking, kind bookingEmailKind) {
	if s.notifier == nil {
		return
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil || listing == nil {
		utils.Logger.WithError(err).Warnf("Could not load listing %d for booking %d emails", booking.ListingID, booking.ID)
		return
	}
	guest, err := s.profileRepo.GetByID(ctx, booking.GuestID)
	if err != nil || guest == nil {
		utils.Logger.WithError(err).Warnf("Could not load guest profile %s for booking %d emails", booking.GuestID, booking.ID)
		return
	}
	host, err := s.profileRepo.GetByID(ctx, listing.HostID)
	if err != nil || host == nil {
		utils.Logger.WithError(err).Warnf("Could not load host profile %s for booking %d emails", listing.HostID, booking.ID)
		return
	}

	clubName := ""
	if club, err := s.clubRepo.GetByID(ctx, listing.ClubID); err == nil && club != nil {
		clubName = club.Name
	}

	data := BookingEmailData{
		GuestName:  guest.FirstName,
		HostName:   host.FirstName,
		ClubName:   clubName,
		TeeTime:    listing.TeeTime.Format("Mon Jan 2, 2006 at 3:04 PM MST"),
		Players:    booking.NumberOfPlayers,
		Total:      booking.TotalAmount,
		HostPayout: booking.TotalAmount - booking.ApplicationFee,
	}

	switch kind {
	case bookingEmailConfirmed:
		if err := s.notifier.SendBookingConfirmedGuest(ctx, guest.Email, data); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send guest confirmation email for booking %d", booking.ID)
		}
		if err := s.notifier.SendBookingConfirmedHost(ctx, host.Email, data); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send host confirmation email for booking %d", booking.ID)
		}
	case bookingEmailPaymentFailed:
		if err := s.notifier.SendPaymentFailedGuest(ctx, guest.Email, data); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send payment failed email for booking %d", booking.ID)
		}
	case bookingEmailRefunded:
		if err := s.notifier.SendBookingRefundedGuest(ctx, guest.Email, data); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send refund email for booking %d", booking.ID)
		}
	}
}
