package services

import (
	"context"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
	"github.com/google/uuid"
)

type SupportService interface {
	SendTicket(ctx context.Context, caller *models.User, subject, message string) (*models.SupportTicket, error)
}

type supportService struct {
	ticketRepo repositories.SupportTicketRepository
}

func NewSupportService(ticketRepo repositories.SupportTicketRepository) SupportService {
	return &supportService{ticketRepo: ticketRepo}
}

func (s *supportService) SendTicket(ctx context.Context, caller *models.User, subject, message string) (*models.SupportTicket, error) {
	if subject == "" || message == "" {
		return nil, ErrValidationFailed
	}

	name := caller.Name
	if name == "" {
		name = caller.Email
	}

	ticket := &models.SupportTicket{
		Reference: uuid.NewString(),
		UserID:    caller.ID,
		Name:      name,
		Email:     caller.Email,
		Subject:   subject,
		Message:   message,
		Status:    models.SupportTicketOpen,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
