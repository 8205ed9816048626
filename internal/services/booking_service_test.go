package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

func newBookingServiceFixture(status models.BookingStatusType) (*BookingService, *models.Booking, uuid.UUID, uuid.UUID) {
	hostID := uuid.New()
	guestID := uuid.New()

	listingRepo := newFakeListingRepo()
	listingRepo.listings[42] = &models.Listing{
		ID:     42,
		HostID: hostID,
		Status: models.ListingStatusBooked,
	}

	bookingRepo := newFakeBookingRepo()
	booking := &models.Booking{
		ID:        1,
		ListingID: 42,
		GuestID:   guestID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	bookingRepo.bookings[1] = booking

	return NewBookingService(bookingRepo, listingRepo), booking, hostID, guestID
}

func TestGetBookingAsGuest(t *testing.T) {
	svc, booking, _, guestID := newBookingServiceFixture(models.BookingStatusConfirmed)

	got, err := svc.GetBooking(context.Background(), guestID, 1)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
}

func TestGetBookingAsHost(t *testing.T) {
	svc, booking, hostID, _ := newBookingServiceFixture(models.BookingStatusConfirmed)

	got, err := svc.GetBooking(context.Background(), hostID, 1)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
}

func TestGetBookingForbiddenForStranger(t *testing.T) {
	svc, _, _, _ := newBookingServiceFixture(models.BookingStatusConfirmed)

	_, err := svc.GetBooking(context.Background(), uuid.New(), 1)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
}

func TestGetBookingNotFound(t *testing.T) {
	svc, _, _, guestID := newBookingServiceFixture(models.BookingStatusConfirmed)

	_, err := svc.GetBooking(context.Background(), guestID, 999)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestCompleteBookingByHost(t *testing.T) {
	svc, _, hostID, _ := newBookingServiceFixture(models.BookingStatusConfirmed)

	got, err := svc.CompleteBooking(context.Background(), hostID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, got.Status)
}

func TestCompleteBookingGuestForbidden(t *testing.T) {
	svc, booking, _, guestID := newBookingServiceFixture(models.BookingStatusConfirmed)

	_, err := svc.CompleteBooking(context.Background(), guestID, 1)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestCompleteBookingRequiresConfirmedStatus(t *testing.T) {
	svc, booking, hostID, _ := newBookingServiceFixture(models.BookingStatusPaymentPending)

	_, err := svc.CompleteBooking(context.Background(), hostID, 1)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.Equal(t, models.BookingStatusPaymentPending, booking.Status)
}
