package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

type DonationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, d *models.Donation) error
}

type postgresDonationRepository struct {
	db *sql.DB
}

func NewPostgresDonationRepository(db *sql.DB) DonationRepository {
	return &postgresDonationRepository{db: db}
}

func (r *postgresDonationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDonationRepository) Create(ctx context.Context, exec SQLExecutor, d *models.Donation) error {
	executor := r.getExecutor(exec)
	err := executor.QueryRowContext(ctx, `
		INSERT INTO donations (sponsor_name, fan_id, amount, activity, xp_offered)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		d.SponsorName, d.FanID, d.Amount, d.Activity, d.XPOffered,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}
