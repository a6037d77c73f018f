package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type ListUsersFilter struct {
	Role *models.UserRole
}

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]models.User, error)
	ListRanking(ctx context.Context, role models.UserRole, minXP float64, limit int) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int, profileImageURL string, teamName *string) error
	SetOrganization(ctx context.Context, exec SQLExecutor, userID, organizationID int) error

	// GetNamesByIDs резолвит имена одним запросом (id = ANY($1)).
	GetNamesByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]string, error)

	AddXP(ctx context.Context, exec SQLExecutor, userID int, xp float64) error
	AddChampionshipParticipation(ctx context.Context, exec SQLExecutor, userID, championshipID int) error
	HasCompletedMission(ctx context.Context, exec SQLExecutor, userID, missionID int) (bool, error)
	AddCompletedMission(ctx context.Context, exec SQLExecutor, userID, missionID int) error
	ResetAllXP(ctx context.Context) (int64, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, email, password_hash, name, role, organization_id, xp_total, profile_image_url, team_name, created_at`

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.OrganizationID,
		&u.XPTotal, &u.ProfileImageURL, &u.TeamName, &u.CreatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO users (email, password_hash, name, role, organization_id, profile_image_url, team_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, xp_total, created_at`

	err := executor.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Role, user.OrganizationID,
		user.ProfileImageURL, user.TeamName,
	).Scan(&user.ID, &user.XPTotal, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u := &models.User{}
	err := scanUser(executor.QueryRowContext(ctx, query, id), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, email), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context, filter ListUsersFilter) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if filter.Role != nil {
		query += ` WHERE role = $1`
		args = append(args, *filter.Role)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) ListRanking(ctx context.Context, role models.UserRole, minXP float64, limit int) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND xp_total >= $2
		ORDER BY xp_total DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, role, minXP, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking for role %s: %w", role, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, id int, profileImageURL string, teamName *string) error {
	query := `UPDATE users SET profile_image_url = $1`
	args := []interface{}{profileImageURL}
	if teamName != nil {
		query += `, team_name = $2 WHERE id = $3`
		args = append(args, *teamName, id)
	} else {
		query += ` WHERE id = $2`
		args = append(args, id)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetOrganization(ctx context.Context, exec SQLExecutor, userID, organizationID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE users SET organization_id = $1 WHERE id = $2`, organizationID, userID)
	if err != nil {
		return fmt.Errorf("failed to set user organization: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) GetNamesByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	executor := r.getExecutor(exec)

	rows, err := executor.QueryContext(ctx, `SELECT id, name FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load user names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user name row: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *postgresUserRepository) AddXP(ctx context.Context, exec SQLExecutor, userID int, xp float64) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE users SET xp_total = xp_total + $1 WHERE id = $2`, xp, userID)
	if err != nil {
		return fmt.Errorf("failed to add xp to user %d: %w", userID, err)
	}
	return nil
}

// AddChampionshipParticipation — идемпотентное добавление: сколько бы мест
// пользователь ни занял в одном чемпионате, членство записывается один раз.
func (r *postgresUserRepository) AddChampionshipParticipation(ctx context.Context, exec SQLExecutor, userID, championshipID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		INSERT INTO user_championships (user_id, championship_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, championship_id) DO NOTHING`,
		userID, championshipID)
	if err != nil {
		return fmt.Errorf("failed to record championship participation: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) HasCompletedMission(ctx context.Context, exec SQLExecutor, userID, missionID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_missions WHERE user_id = $1 AND mission_id = $2)`,
		userID, missionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check mission completion: %w", err)
	}
	return exists, nil
}

func (r *postgresUserRepository) AddCompletedMission(ctx context.Context, exec SQLExecutor, userID, missionID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		INSERT INTO user_missions (user_id, mission_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, mission_id) DO NOTHING`,
		userID, missionID)
	if err != nil {
		return fmt.Errorf("failed to record mission completion: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) ResetAllXP(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET xp_total = 0`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset xp: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return affected, nil
}
