package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

// Значения по умолчанию, если конфигурация рейтинга еще не сохранялась.
const (
	DefaultMinXPPlayers = 500
	DefaultMinXPFans    = 100
)

type RankingConfigRepository interface {
	Get(ctx context.Context) (*models.RankingConfig, error)
	Upsert(ctx context.Context, cfg *models.RankingConfig) error
}

type postgresRankingConfigRepository struct {
	db *sql.DB
}

func NewPostgresRankingConfigRepository(db *sql.DB) RankingConfigRepository {
	return &postgresRankingConfigRepository{db: db}
}

func (r *postgresRankingConfigRepository) Get(ctx context.Context) (*models.RankingConfig, error) {
	cfg := &models.RankingConfig{}
	err := r.db.QueryRowContext(ctx,
		`SELECT min_xp_players, min_xp_fans FROM ranking_config WHERE id = 1`,
	).Scan(&cfg.MinXPPlayers, &cfg.MinXPFans)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.RankingConfig{
				MinXPPlayers: DefaultMinXPPlayers,
				MinXPFans:    DefaultMinXPFans,
			}, nil
		}
		return nil, fmt.Errorf("failed to read ranking config: %w", err)
	}
	return cfg, nil
}

func (r *postgresRankingConfigRepository) Upsert(ctx context.Context, cfg *models.RankingConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ranking_config (id, min_xp_players, min_xp_fans)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET min_xp_players = $1, min_xp_fans = $2`,
		cfg.MinXPPlayers, cfg.MinXPFans)
	if err != nil {
		return fmt.Errorf("failed to save ranking config: %w", err)
	}
	return nil
}
