package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/lib/pq"
)

var ErrOrganizationNotFound = errors.New("organization not found")

type OrganizationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, org *models.Organization) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Organization, error)
	List(ctx context.Context) ([]models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	UpdateImageURL(ctx context.Context, id int, imageURL string) error
	AddGame(ctx context.Context, exec SQLExecutor, id int, game string) error
}

type postgresOrganizationRepository struct {
	db *sql.DB
}

func NewPostgresOrganizationRepository(db *sql.DB) OrganizationRepository {
	return &postgresOrganizationRepository{db: db}
}

func (r *postgresOrganizationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const organizationColumns = `id, name, description, admin_user_id, xp_base, image_url, games, created_at`

func scanOrganization(row interface{ Scan(...interface{}) error }, o *models.Organization) error {
	return row.Scan(
		&o.ID, &o.Name, &o.Description, &o.AdminUserID, &o.XPBase,
		&o.ImageURL, pq.Array(&o.Games), &o.CreatedAt,
	)
}

func (r *postgresOrganizationRepository) Create(ctx context.Context, exec SQLExecutor, org *models.Organization) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO organizations (name, description, admin_user_id, xp_base, image_url, games)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		org.Name, org.Description, org.AdminUserID, org.XPBase, org.ImageURL, pq.Array(org.Games),
	).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

func (r *postgresOrganizationRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Organization, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

	o := &models.Organization{}
	err := scanOrganization(executor.QueryRowContext(ctx, query, id), o)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresOrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := scanOrganization(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *postgresOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, description = $2, xp_base = $3, image_url = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		org.Name, org.Description, org.XPBase, org.ImageURL, org.ID)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return checkAffectedRows(result, ErrOrganizationNotFound)
}

func (r *postgresOrganizationRepository) UpdateImageURL(ctx context.Context, id int, imageURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE organizations SET image_url = $1 WHERE id = $2`, imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update organization image: %w", err)
	}
	return checkAffectedRows(result, ErrOrganizationNotFound)
}

// AddGame добавляет slug игры в массив games, если его там еще нет.
func (r *postgresOrganizationRepository) AddGame(ctx context.Context, exec SQLExecutor, id int, game string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE organizations
		SET games = array_append(games, $1)
		WHERE id = $2 AND NOT ($1 = ANY(games))`,
		game, id)
	if err != nil {
		return fmt.Errorf("failed to add game to organization: %w", err)
	}
	// 0 affected rows здесь означает "slug уже есть", это не ошибка.
	_ = result
	return nil
}
