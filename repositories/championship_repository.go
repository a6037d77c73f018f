package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

var ErrChampionshipNotFound = errors.New("championship not found")

type ListChampionshipsFilter struct {
	OrganizerID *int
}

type ChampionshipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error)
	List(ctx context.Context, filter ListChampionshipsFilter) ([]models.Championship, error)
	MarkFinalized(ctx context.Context, exec SQLExecutor, id int) error
	InsertResults(ctx context.Context, exec SQLExecutor, championshipID int, results []models.PlacementResult) error
	ListResults(ctx context.Context, championshipID int) ([]models.PlacementResult, error)
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

func (r *postgresChampionshipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const championshipColumns = `id, organizer_id, organizer_name, name, description, game, event_date, xp_pool, status, created_by, created_at`

func scanChampionship(row interface{ Scan(...interface{}) error }, c *models.Championship) error {
	return row.Scan(
		&c.ID, &c.OrganizerID, &c.OrganizerName, &c.Name, &c.Description, &c.Game,
		&c.EventDate, &c.XPPool, &c.Status, &c.CreatedBy, &c.CreatedAt,
	)
}

func (r *postgresChampionshipRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO championships (organizer_id, organizer_name, name, description, game, event_date, xp_pool, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		c.OrganizerID, c.OrganizerName, c.Name, c.Description, c.Game,
		c.EventDate, c.XPPool, c.Status, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create championship: %w", err)
	}
	return nil
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1`

	c := &models.Championship{}
	err := scanChampionship(executor.QueryRowContext(ctx, query, id), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresChampionshipRepository) List(ctx context.Context, filter ListChampionshipsFilter) ([]models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships`
	args := []interface{}{}
	if filter.OrganizerID != nil {
		query += ` WHERE organizer_id = $1`
		args = append(args, *filter.OrganizerID)
	}
	query += ` ORDER BY event_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}
	defer rows.Close()

	var champs []models.Championship
	for rows.Next() {
		var c models.Championship
		if err := scanChampionship(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan championship row: %w", err)
		}
		champs = append(champs, c)
	}
	return champs, rows.Err()
}

func (r *postgresChampionshipRepository) MarkFinalized(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE championships SET status = $1 WHERE id = $2`,
		models.ChampionshipFinalized, id)
	if err != nil {
		return fmt.Errorf("failed to mark championship finalized: %w", err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

// InsertResults добавляет записи результатов. Таблица append-only: порядок
// сохранения фиксируется серийным id.
func (r *postgresChampionshipRepository) InsertResults(ctx context.Context, exec SQLExecutor, championshipID int, results []models.PlacementResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO championship_results (championship_id, player_id, display_name, rank, xp_awarded)
		VALUES ($1, $2, $3, $4, $5)`

	for i := range results {
		res := &results[i]
		if _, err := executor.ExecContext(ctx, query,
			championshipID, res.PlayerID, res.DisplayName, res.Rank, res.XPAwarded,
		); err != nil {
			return fmt.Errorf("failed to insert placement result (rank %d): %w", res.Rank, err)
		}
	}
	return nil
}

func (r *postgresChampionshipRepository) ListResults(ctx context.Context, championshipID int) ([]models.PlacementResult, error) {
	query := `
		SELECT id, championship_id, player_id, display_name, rank, xp_awarded
		FROM championship_results
		WHERE championship_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list championship results: %w", err)
	}
	defer rows.Close()

	var results []models.PlacementResult
	for rows.Next() {
		var res models.PlacementResult
		if err := rows.Scan(&res.ID, &res.ChampionshipID, &res.PlayerID, &res.DisplayName, &res.Rank, &res.XPAwarded); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
