package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// ListingRepository defines the interface for tee time listing data
// operations. Every status mutation is a conditional transition filtered on
// the expected prior status, so a late or duplicate write is a harmless
// no-op instead of a corrupting overwrite.
type ListingRepository interface {
	Create(ctx context.Context, l *models.Listing) error
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	// GetAvailableForBooking returns the listing joined with its host and
	// club, but only while the listing status is `available`. A listing in
	// any other status is reported as not found.
	GetAvailableForBooking(ctx context.Context, id int64) (*models.ListingDetail, error)
	UpdateStatusIf(ctx context.Context, id int64, from, to models.ListingStatusType) (bool, error)
	// CancelByHost moves a non-terminal listing owned by hostID to cancelled.
	CancelByHost(ctx context.Context, id int64, hostID uuid.UUID) (bool, error)
	FindByStatusUpdatedBefore(ctx context.Context, status models.ListingStatusType, cutoff time.Time) ([]*models.Listing, error)
}

type listingRepo struct {
	db DB
}

func NewListingRepository(db DB) ListingRepository {
	return &listingRepo{db: db}
}

func baseSelectListing() string {
	return `
		SELECT
			id, host_id, club_id, tee_time, price_per_player, players_allowed,
			notes, status, created_at, updated_at
		FROM listings
	`
}

func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.HostID, &l.ClubID, &l.TeeTime, &l.PricePerPlayer, &l.PlayersAllowed,
		&l.Notes, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepo) Create(ctx context.Context, l *models.Listing) error {
	q := `
		INSERT INTO listings (
			host_id, club_id, tee_time, price_per_player, players_allowed,
			notes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, q,
		l.HostID, l.ClubID, l.TeeTime, l.PricePerPlayer, l.PlayersAllowed,
		l.Notes, l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *listingRepo) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	row := r.db.QueryRow(ctx, baseSelectListing()+" WHERE id = $1", id)
	return scanListing(row)
}

func (r *listingRepo) GetAvailableForBooking(ctx context.Context, id int64) (*models.ListingDetail, error) {
	q := `
		SELECT
			l.id, l.host_id, l.club_id, l.tee_time, l.price_per_player, l.players_allowed,
			l.notes, l.status, l.created_at, l.updated_at,
			p.id, p.email, p.first_name, p.last_name, p.stripe_connect_account_id,
			p.created_at, p.updated_at, p.row_version,
			c.id, c.name, c.city, c.state, c.created_at
		FROM listings l
		JOIN profiles p ON p.id = l.host_id
		JOIN clubs c ON c.id = l.club_id
		WHERE l.id = $1 AND l.status = $2
	`
	row := r.db.QueryRow(ctx, q, id, models.ListingStatusAvailable)

	var d models.ListingDetail
	var host models.Profile
	var club models.Club
	err := row.Scan(
		&d.ID, &d.HostID, &d.ClubID, &d.TeeTime, &d.PricePerPlayer, &d.PlayersAllowed,
		&d.Notes, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&host.ID, &host.Email, &host.FirstName, &host.LastName, &host.StripeConnectAccountID,
		&host.CreatedAt, &host.UpdatedAt, &host.RowVersion,
		&club.ID, &club.Name, &club.City, &club.State, &club.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Host = &host
	d.Club = &club
	return &d, nil
}

func (r *listingRepo) UpdateStatusIf(ctx context.Context, id int64, from, to models.ListingStatusType) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *listingRepo) CancelByHost(ctx context.Context, id int64, hostID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND host_id = $3 AND status != $1
	`, models.ListingStatusCancelled, id, hostID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *listingRepo) FindByStatusUpdatedBefore(ctx context.Context, status models.ListingStatusType, cutoff time.Time) ([]*models.Listing, error) {
	q := baseSelectListing() + " WHERE status = $1 AND updated_at < $2 ORDER BY updated_at"
	rows, err := r.db.Query(ctx, q, status, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
