package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fgcbrasil/platform-backend/models"
)

type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
}

type postgresSupportTicketRepository struct {
	db *sql.DB
}

func NewPostgresSupportTicketRepository(db *sql.DB) SupportTicketRepository {
	return &postgresSupportTicketRepository{db: db}
}

func (r *postgresSupportTicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO support_tickets (reference, user_id, name, email, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		ticket.Reference, ticket.UserID, ticket.Name, ticket.Email,
		ticket.Subject, ticket.Message, ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}
