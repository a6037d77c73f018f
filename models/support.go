package models

import "time"

type SupportTicketStatus string

const (
	SupportTicketOpen   SupportTicketStatus = "open"
	SupportTicketClosed SupportTicketStatus = "closed"
)

// SupportTicket — обращение пользователя в поддержку.
type SupportTicket struct {
	ID        int                 `json:"id" db:"id"`
	Reference string              `json:"reference" db:"reference"`
	UserID    int                 `json:"user_id" db:"user_id"`
	Name      string              `json:"name" db:"name"`
	Email     string              `json:"email" db:"email"`
	Subject   string              `json:"subject" db:"subject"`
	Message   string              `json:"message" db:"message"`
	Status    SupportTicketStatus `json:"status" db:"status"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}
