package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

var ErrMissionNotFound = errors.New("mission not found")

type MissionRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Mission, error)
	List(ctx context.Context) ([]models.Mission, error)
}

type postgresMissionRepository struct {
	db *sql.DB
}

func NewPostgresMissionRepository(db *sql.DB) MissionRepository {
	return &postgresMissionRepository{db: db}
}

func (r *postgresMissionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMissionRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Mission, error) {
	executor := r.getExecutor(exec)
	m := &models.Mission{}
	err := executor.QueryRowContext(ctx,
		`SELECT id, title, description, xp_reward FROM missions WHERE id = $1`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.XPReward)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMissionRepository) List(ctx context.Context) ([]models.Mission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, xp_reward FROM missions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.XPReward); err != nil {
			return nil, fmt.Errorf("failed to scan mission row: %w", err)
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}
