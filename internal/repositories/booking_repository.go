package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// BookingRepository defines the interface for booking data operations.
// Status transitions after creation are conditional on the expected prior
// status; callers must treat a zero-row update as "transition not taken".
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	GetLatestByListingID(ctx context.Context, listingID int64) (*models.Booking, error)
	// TransitionByPaymentIntent moves the booking for a payment intent from
	// `from` to `to`. When setCompletedAt is true the completed_at timestamp
	// is stamped as part of the same update.
	TransitionByPaymentIntent(ctx context.Context, paymentIntentID string, from, to models.BookingStatusType, setCompletedAt bool) (bool, error)
	TransitionStatus(ctx context.Context, id int64, from, to models.BookingStatusType) (bool, error)
}

type bookingRepo struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &bookingRepo{db: db}
}

func baseSelectBooking() string {
	return `
		SELECT
			id, listing_id, guest_id, number_of_players, total_amount,
			host_amount, guest_fee, application_fee, status, payment_intent_id,
			created_at, completed_at
		FROM bookings
	`
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.ListingID, &b.GuestID, &b.NumberOfPlayers, &b.TotalAmount,
		&b.HostAmount, &b.GuestFee, &b.ApplicationFee, &b.Status, &b.PaymentIntentID,
		&b.CreatedAt, &b.CompletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	q := `
		INSERT INTO bookings (
			listing_id, guest_id, number_of_players, total_amount,
			host_amount, guest_fee, application_fee, status, payment_intent_id,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, q,
		b.ListingID, b.GuestID, b.NumberOfPlayers, b.TotalAmount,
		b.HostAmount, b.GuestFee, b.ApplicationFee, b.Status, b.PaymentIntentID,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, baseSelectBooking()+" WHERE id = $1", id)
	return scanBooking(row)
}

func (r *bookingRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, baseSelectBooking()+" WHERE payment_intent_id = $1", paymentIntentID)
	return scanBooking(row)
}

func (r *bookingRepo) GetLatestByListingID(ctx context.Context, listingID int64) (*models.Booking, error) {
	q := baseSelectBooking() + " WHERE listing_id = $1 ORDER BY created_at DESC LIMIT 1"
	row := r.db.QueryRow(ctx, q, listingID)
	return scanBooking(row)
}

func (r *bookingRepo) TransitionByPaymentIntent(ctx context.Context, paymentIntentID string, from, to models.BookingStatusType, setCompletedAt bool) (bool, error) {
	var q string
	if setCompletedAt {
		q = `
			UPDATE bookings SET status = $1, completed_at = NOW()
			WHERE payment_intent_id = $2 AND status = $3
		`
	} else {
		q = `
			UPDATE bookings SET status = $1
			WHERE payment_intent_id = $2 AND status = $3
		`
	}
	tag, err := r.db.Exec(ctx, q, to, paymentIntentID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *bookingRepo) TransitionStatus(ctx context.Context, id int64, from, to models.BookingStatusType) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET status = $1
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
