package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

var ErrRaffleNotFound = errors.New("raffle not found")

type RaffleRepository interface {
	GetBySlug(ctx context.Context, exec SQLExecutor, slug string) (*models.Raffle, error)
	ListTickets(ctx context.Context, exec SQLExecutor, raffleID int) ([]models.RaffleTicket, error)

	// MaxTicketNumber возвращает наибольший выданный номер (0, если билетов нет).
	MaxTicketNumber(ctx context.Context, exec SQLExecutor, raffleID int) (int, error)
	InsertTicket(ctx context.Context, exec SQLExecutor, ticket *models.RaffleTicket) error
	ClearTickets(ctx context.Context, raffleID int) error
}

type postgresRaffleRepository struct {
	db *sql.DB
}

func NewPostgresRaffleRepository(db *sql.DB) RaffleRepository {
	return &postgresRaffleRepository{db: db}
}

func (r *postgresRaffleRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRaffleRepository) GetBySlug(ctx context.Context, exec SQLExecutor, slug string) (*models.Raffle, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, slug, name, created_at FROM raffles WHERE slug = $1`

	raffle := &models.Raffle{}
	err := executor.QueryRowContext(ctx, query, slug).Scan(
		&raffle.ID, &raffle.Slug, &raffle.Name, &raffle.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	return raffle, nil
}

func (r *postgresRaffleRepository) ListTickets(ctx context.Context, exec SQLExecutor, raffleID int) ([]models.RaffleTicket, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, raffle_id, number, holder_id, holder_name
		FROM raffle_tickets
		WHERE raffle_id = $1
		ORDER BY number ASC`

	rows, err := executor.QueryContext(ctx, query, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffle tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.RaffleTicket
	for rows.Next() {
		var t models.RaffleTicket
		if err := rows.Scan(&t.ID, &t.RaffleID, &t.Number, &t.HolderID, &t.HolderName); err != nil {
			return nil, fmt.Errorf("failed to scan raffle ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *postgresRaffleRepository) MaxTicketNumber(ctx context.Context, exec SQLExecutor, raffleID int) (int, error) {
	executor := r.getExecutor(exec)
	var max int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM raffle_tickets WHERE raffle_id = $1`,
		raffleID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read max ticket number: %w", err)
	}
	return max, nil
}

func (r *postgresRaffleRepository) InsertTicket(ctx context.Context, exec SQLExecutor, ticket *models.RaffleTicket) error {
	executor := r.getExecutor(exec)
	// UNIQUE (raffle_id, number) страхует последовательность номеров на случай,
	// если уровень изоляции окажется слабее ожидаемого.
	err := executor.QueryRowContext(ctx, `
		INSERT INTO raffle_tickets (raffle_id, number, holder_id, holder_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		ticket.RaffleID, ticket.Number, ticket.HolderID, ticket.HolderName,
	).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to insert raffle ticket %d: %w", ticket.Number, err)
	}
	return nil
}

func (r *postgresRaffleRepository) ClearTickets(ctx context.Context, raffleID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM raffle_tickets WHERE raffle_id = $1`, raffleID)
	if err != nil {
		return fmt.Errorf("failed to clear raffle tickets: %w", err)
	}
	return nil
}
