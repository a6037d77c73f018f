package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fgcbrasil/platform-backend/db"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
)

// CurrentRaffleSlug — слаг активного розыгрыша. Реестр создается
// администрацией заранее; сервис его никогда не создает неявно.
const CurrentRaffleSlug = "current"

type RaffleService interface {
	GetCurrent(ctx context.Context) (*models.Raffle, error)

	// AddParticipant выдает участнику следующий последовательный номер
	// билета и возвращает его.
	AddParticipant(ctx context.Context, playerID int) (int, error)
	Reset(ctx context.Context) error
}

type raffleService struct {
	runner     db.TxRunner
	raffleRepo repositories.RaffleRepository
	userRepo   repositories.UserRepository
	logger     *slog.Logger
}

func NewRaffleService(
	runner db.TxRunner,
	raffleRepo repositories.RaffleRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) RaffleService {
	return &raffleService{
		runner:     runner,
		raffleRepo: raffleRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (s *raffleService) GetCurrent(ctx context.Context) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.GetBySlug(ctx, nil, CurrentRaffleSlug)
	if err != nil {
		if errors.Is(err, repositories.ErrRaffleNotFound) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	tickets, err := s.raffleRepo.ListTickets(ctx, nil, raffle.ID)
	if err != nil {
		return nil, err
	}
	raffle.Tickets = tickets
	return raffle, nil
}

// AddParticipant: вычисление следующего номера и вставка билета происходят
// в одной сериализуемой транзакции, поэтому два конкурентных вызова никогда
// не получат одинаковый номер — проигравший конфликт перечитает максимум
// заново. Номера идут строго подряд от 1, без дыр.
func (s *raffleService) AddParticipant(ctx context.Context, playerID int) (int, error) {
	holder, err := s.userRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to load raffle participant %d: %w", playerID, err)
	}

	var ticketNumber int
	err = s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		raffle, err := s.raffleRepo.GetBySlug(ctx, tx, CurrentRaffleSlug)
		if err != nil {
			if errors.Is(err, repositories.ErrRaffleNotFound) {
				return ErrRaffleNotFound
			}
			return err
		}

		maxNumber, err := s.raffleRepo.MaxTicketNumber(ctx, tx, raffle.ID)
		if err != nil {
			return err
		}

		ticket := &models.RaffleTicket{
			RaffleID:   raffle.ID,
			Number:     maxNumber + 1,
			HolderID:   holder.ID,
			HolderName: holder.Name,
		}
		if err := s.raffleRepo.InsertTicket(ctx, tx, ticket); err != nil {
			return err
		}
		ticketNumber = ticket.Number
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrTxRetryLimit) {
			return 0, ErrStoreContention
		}
		return 0, err
	}

	if s.logger != nil {
		s.logger.Info("raffle ticket allocated",
			slog.Int("ticket_number", ticketNumber),
			slog.Int("holder_id", holder.ID),
		)
	}
	return ticketNumber, nil
}

func (s *raffleService) Reset(ctx context.Context) error {
	raffle, err := s.raffleRepo.GetBySlug(ctx, nil, CurrentRaffleSlug)
	if err != nil {
		if errors.Is(err, repositories.ErrRaffleNotFound) {
			return ErrRaffleNotFound
		}
		return err
	}
	return s.raffleRepo.ClearTickets(ctx, raffle.ID)
}
