package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
)

// ClubRepository defines the interface for club data operations.
type ClubRepository interface {
	Create(ctx context.Context, c *models.Club) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
}

type clubRepo struct {
	db DB
}

func NewClubRepository(db DB) ClubRepository {
	return &clubRepo{db: db}
}

func (r *clubRepo) Create(ctx context.Context, c *models.Club) error {
	q := `
		INSERT INTO clubs (name, city, state, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, q, c.Name, c.City, c.State).Scan(&c.ID, &c.CreatedAt)
}

func (r *clubRepo) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, city, state, created_at FROM clubs WHERE id = $1`, id)
	var c models.Club
	err := row.Scan(&c.ID, &c.Name, &c.City, &c.State, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
