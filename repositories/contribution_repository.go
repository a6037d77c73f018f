package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

type ContributionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, c *models.Contribution) error
	TotalAmount(ctx context.Context) (float64, error)
}

type postgresContributionRepository struct {
	db *sql.DB
}

func NewPostgresContributionRepository(db *sql.DB) ContributionRepository {
	return &postgresContributionRepository{db: db}
}

func (r *postgresContributionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresContributionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Contribution) error {
	executor := r.getExecutor(exec)
	err := executor.QueryRowContext(ctx, `
		INSERT INTO contributions (fan_id, amount, xp_generated)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.FanID, c.Amount, c.XPGenerated,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

func (r *postgresContributionRepository) TotalAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM contributions`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum contributions: %w", err)
	}
	return total, nil
}
