package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// In-memory fakes for the repository and gateway interfaces, so service
// logic can be exercised without Postgres or Stripe.

type fakeListingRepo struct {
	listings map[int64]*models.Listing
	details  map[int64]*models.ListingDetail

	updateStatusErr error
	transitions     []string
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: map[int64]*models.Listing{},
		details:  map[int64]*models.ListingDetail{},
	}
}

func (f *fakeListingRepo) Create(ctx context.Context, l *models.Listing) error {
	l.ID = int64(len(f.listings) + 1)
	l.CreatedAt = time.Now()
	f.listings[l.ID] = l
	return nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	return f.listings[id], nil
}

func (f *fakeListingRepo) GetAvailableForBooking(ctx context.Context, id int64) (*models.ListingDetail, error) {
	d, ok := f.details[id]
	if !ok || d.Status != models.ListingStatusAvailable {
		return nil, nil
	}
	return d, nil
}

func (f *fakeListingRepo) UpdateStatusIf(ctx context.Context, id int64, from, to models.ListingStatusType) (bool, error) {
	if f.updateStatusErr != nil {
		return false, f.updateStatusErr
	}
	f.transitions = append(f.transitions, fmt.Sprintf("%d:%s->%s", id, from, to))
	l, ok := f.listings[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = to
	if d, ok := f.details[id]; ok {
		d.Status = to
	}
	return true, nil
}

func (f *fakeListingRepo) CancelByHost(ctx context.Context, id int64, hostID uuid.UUID) (bool, error) {
	l, ok := f.listings[id]
	if !ok || l.HostID != hostID || l.Status == models.ListingStatusCancelled {
		return false, nil
	}
	l.Status = models.ListingStatusCancelled
	return true, nil
}

func (f *fakeListingRepo) FindByStatusUpdatedBefore(ctx context.Context, status models.ListingStatusType, cutoff time.Time) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, l := range f.listings {
		if l.Status == status && l.UpdatedAt.Before(cutoff) {
			out = append(out, l)
		}
	}
	return out, nil
}

// add registers a listing (and its joined detail) in one step.
func (f *fakeListingRepo) add(l *models.Listing, host *models.Profile, club *models.Club) {
	f.listings[l.ID] = l
	f.details[l.ID] = &models.ListingDetail{Listing: *l, Host: host, Club: club}
}

type fakeBookingRepo struct {
	bookings  map[int64]*models.Booking
	createErr error
	nextID    int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[int64]*models.Booking{}}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.PaymentIntentID != nil && *b.PaymentIntentID == paymentIntentID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetLatestByListingID(ctx context.Context, listingID int64) (*models.Booking, error) {
	var latest *models.Booking
	for _, b := range f.bookings {
		if b.ListingID != listingID {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	return latest, nil
}

func (f *fakeBookingRepo) TransitionByPaymentIntent(ctx context.Context, paymentIntentID string, from, to models.BookingStatusType, setCompletedAt bool) (bool, error) {
	b, _ := f.GetByPaymentIntentID(ctx, paymentIntentID)
	if b == nil || b.Status != from {
		return false, nil
	}
	b.Status = to
	if setCompletedAt {
		now := time.Now()
		b.CompletedAt = &now
	}
	return true, nil
}

func (f *fakeBookingRepo) TransitionStatus(ctx context.Context, id int64, from, to models.BookingStatusType) (bool, error) {
	b := f.bookings[id]
	if b == nil || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

type fakeWebhookEventRepo struct {
	events    map[string]*models.WebhookEvent
	existsErr error
	insertErr error
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{events: map[string]*models.WebhookEvent{}}
}

func (f *fakeWebhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.events[eventID]
	return ok, nil
}

func (f *fakeWebhookEventRepo) Insert(ctx context.Context, e *models.WebhookEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.events[e.ID]; ok {
		return nil
	}
	e.ReceivedAt = time.Now()
	f.events[e.ID] = e
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return f.profiles[id], nil
}

func (f *fakeProfileRepo) GetByStripeConnectAccountID(ctx context.Context, acct string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.StripeConnectAccountID != nil && *p.StripeConnectAccountID == acct {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) UpdateIfVersion(ctx context.Context, p *models.Profile, expectedVersion int64) (pgconn.CommandTag, error) {
	stored, ok := f.profiles[p.ID]
	if !ok || stored.RowVersion != expectedVersion {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	p.RowVersion = expectedVersion + 1
	f.profiles[p.ID] = p
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakeProfileRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Profile) error) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("profile not found")
	}
	return mutate(p)
}

type fakeClubRepo struct {
	clubs map[int64]*models.Club
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: map[int64]*models.Club{}}
}

func (f *fakeClubRepo) Create(ctx context.Context, c *models.Club) error {
	c.ID = int64(len(f.clubs) + 1)
	c.CreatedAt = time.Now()
	f.clubs[c.ID] = c
	return nil
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	return f.clubs[id], nil
}

type fakeGateway struct {
	createErr error
	getErr    error
	cancelErr error

	// intentStatus is what GetPaymentIntent reports; zero value means the
	// intent was never completed.
	intentStatus stripe.PaymentIntentStatus

	created    []CreateIntentParams
	cancelled  []string
	nextIntent int
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, p CreateIntentParams) (*stripe.PaymentIntent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextIntent++
	f.created = append(f.created, p)
	id := fmt.Sprintf("pi_test_%d", f.nextIntent)
	return &stripe.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
	}, nil
}

func (f *fakeGateway) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	status := f.intentStatus
	if status == "" {
		status = stripe.PaymentIntentStatusRequiresPaymentMethod
	}
	return &stripe.PaymentIntent{ID: id, Status: status}, nil
}

func (f *fakeGateway) CancelPaymentIntent(ctx context.Context, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendBookingConfirmedGuest(ctx context.Context, toEmail string, data BookingEmailData) error {
	f.sent = append(f.sent, "confirmed_guest:"+toEmail)
	return nil
}

func (f *fakeNotifier) SendBookingConfirmedHost(ctx context.Context, toEmail string, data BookingEmailData) error {
	f.sent = append(f.sent, "confirmed_host:"+toEmail)
	return nil
}

func (f *fakeNotifier) SendPaymentFailedGuest(ctx context.Context, toEmail string, data BookingEmailData) error {
	f.sent = append(f.sent, "payment_failed:"+toEmail)
	return nil
}

func (f *fakeNotifier) SendBookingRefundedGuest(ctx context.Context, toEmail string, data BookingEmailData) error {
	f.sent = append(f.sent, "refunded:"+toEmail)
	return nil
}
