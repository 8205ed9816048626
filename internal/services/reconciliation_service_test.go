package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

func newStuckListing(listingRepo *fakeListingRepo) *models.Listing {
	l := &models.Listing{
		ID:             7,
		HostID:         uuid.New(),
		ClubID:         1,
		TeeTime:        time.Now().Add(24 * time.Hour),
		PricePerPlayer: 80.00,
		PlayersAllowed: 2,
		Status:         models.ListingStatusPendingPayment,
		UpdatedAt:      time.Now().Add(-2 * time.Hour),
	}
	listingRepo.listings[l.ID] = l
	return l
}

func TestReconcileReleasesListingWithoutBooking(t *testing.T) {
	listingRepo := newFakeListingRepo()
	listing := newStuckListing(listingRepo)
	bookingRepo := newFakeBookingRepo()
	gateway := &fakeGateway{}
	svc := NewReconciliationService(listingRepo, bookingRepo, gateway)

	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, models.ListingStatusAvailable, listing.Status)
	assert.Empty(t, gateway.cancelled)
}

func TestReconcileRepairsConfirmedBooking(t *testing.T) {
	listingRepo := newFakeListingRepo()
	listing := newStuckListing(listingRepo)
	bookingRepo := newFakeBookingRepo()
	piID := "pi_test_1"
	bookingRepo.bookings[1] = &models.Booking{
		ID:              1,
		ListingID:       listing.ID,
		GuestID:         uuid.New(),
		Status:          models.BookingStatusConfirmed,
		PaymentIntentID: &piID,
		CreatedAt:       time.Now().Add(-time.Hour),
	}
	gateway := &fakeGateway{}
	svc := NewReconciliationService(listingRepo, bookingRepo, gateway)

	require.NoError(t, svc.Run(context.Background()))

	// The webhook's listing update was lost; reconciliation finishes the job.
	assert.Equal(t, models.ListingStatusBooked, listing.Status)
	assert.Empty(t, gateway.cancelled)
}

func TestReconcileExpiresAbandonedBooking(t *testing.T) {
	listingRepo := newFakeListingRepo()
	listing := newStuckListing(listingRepo)
	bookingRepo := newFakeBookingRepo()
	piID := "pi_abandoned"
	booking := &models.Booking{
		ID:              1,
		ListingID:       listing.ID,
		GuestID:         uuid.New(),
		Status:          models.BookingStatusPaymentPending,
		PaymentIntentID: &piID,
		CreatedAt:       time.Now().Add(-2 * time.Hour),
	}
	bookingRepo.bookings[1] = booking
	gateway := &fakeGateway{}
	svc := NewReconciliationService(listingRepo, bookingRepo, gateway)

	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, []string{"pi_abandoned"}, gateway.cancelled)
	assert.Equal(t, models.BookingStatusPaymentFailed, booking.Status)
	assert.Equal(t, models.ListingStatusAvailable, listing.Status)
}

func TestReconcileRecoversPaidBookingFromLostWebhook(t *testing.T) {
	listingRepo := newFakeListingRepo()
	listing := newStuckListing(listingRepo)
	bookingRepo := newFakeBookingRepo()
	piID := "pi_paid"
	booking := &models.Booking{
		ID:              1,
		ListingID:       listing.ID,
		GuestID:         uuid.New(),
		Status:          models.BookingStatusPaymentPending,
		PaymentIntentID: &piID,
		CreatedAt:       time.Now().Add(-2 * time.Hour),
	}
	bookingRepo.bookings[1] = booking
	gateway := &fakeGateway{intentStatus: stripe.PaymentIntentStatusSucceeded}
	svc := NewReconciliationService(listingRepo, bookingRepo, gateway)

	require.NoError(t, svc.Run(context.Background()))

	// The intent was paid but the success webhook never arrived; the booking
	// is confirmed instead of expired and the intent is never cancelled.
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.NotNil(t, booking.CompletedAt)
	assert.Equal(t, models.ListingStatusBooked, listing.Status)
	assert.Empty(t, gateway.cancelled)
}

func TestReconcileSkipsFreshListings(t *testing.T) {
	listingRepo := newFakeListingRepo()
	listing := newStuckListing(listingRepo)
	listing.UpdatedAt = time.Now() // still within the grace period
	bookingRepo := newFakeBookingRepo()
	gateway := &fakeGateway{}
	svc := NewReconciliationService(listingRepo, bookingRepo, gateway)

	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, models.ListingStatusPendingPayment, listing.Status)
}
