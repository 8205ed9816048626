package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByStripeConnectAccountID(ctx context.Context, acct string) (*models.Profile, error)
	UpdateIfVersion(ctx context.Context, p *models.Profile, expectedVersion int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Profile) error) error
}

type profileRepo struct {
	*BaseVersionedRepo[*models.Profile]
	db DB
}

// NewProfileRepository creates a new instance of the repository.
func NewProfileRepository(db DB) ProfileRepository {
	r := &profileRepo{db: db}
	selectStmt := baseSelectProfile() + " WHERE id = $1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanProfile)
	return r
}

func baseSelectProfile() string {
	return `
		SELECT
			id, email, first_name, last_name, stripe_connect_account_id,
			created_at, updated_at, row_version
		FROM profiles
	`
}

func (r *profileRepo) scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.StripeConnectAccountID,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	q := `
		INSERT INTO profiles (
			id, email, first_name, last_name, stripe_connect_account_id,
			created_at, updated_at, row_version
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW(), 1)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, q, p.ID, p.Email, p.FirstName, p.LastName, p.StripeConnectAccountID)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *profileRepo) GetByStripeConnectAccountID(ctx context.Context, acct string) (*models.Profile, error) {
	row := r.db.QueryRow(ctx, baseSelectProfile()+" WHERE stripe_connect_account_id = $1", acct)
	return r.scanProfile(row)
}

func (r *profileRepo) UpdateIfVersion(ctx context.Context, p *models.Profile, expectedVersion int64) (pgconn.CommandTag, error) {
	q := `
		UPDATE profiles SET
			email = $1,
			first_name = $2,
			last_name = $3,
			stripe_connect_account_id = $4,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $5 AND row_version = $6
	`
	return r.db.Exec(ctx, q,
		p.Email, p.FirstName, p.LastName, p.StripeConnectAccountID,
		p.ID, expectedVersion)
}

func (r *profileRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Profile) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}
