package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fgcbrasil/platform-backend/db"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
)

type CreateChampionshipInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Game        *string   `json:"game"`

	// XPPool <= 0 означает "взять xp_base организации".
	XPPool float64 `json:"xp_pool"`

	// OrganizerID учитывается только для глобального администратора;
	// организатор всегда создает чемпионаты своей организации.
	OrganizerID *int `json:"organizer_id"`
}

type ChampionshipService interface {
	Create(ctx context.Context, caller *models.User, input CreateChampionshipInput) (*models.Championship, error)
	GetByID(ctx context.Context, id int) (*models.Championship, error)
	ListByOrganization(ctx context.Context, organizationID int) ([]models.Championship, error)
	ListForCaller(ctx context.Context, caller *models.User) ([]models.Championship, error)
}

type championshipService struct {
	runner    db.TxRunner
	champRepo repositories.ChampionshipRepository
	orgRepo   repositories.OrganizationRepository
}

func NewChampionshipService(
	runner db.TxRunner,
	champRepo repositories.ChampionshipRepository,
	orgRepo repositories.OrganizationRepository,
) ChampionshipService {
	return &championshipService{
		runner:    runner,
		champRepo: champRepo,
		orgRepo:   orgRepo,
	}
}

// Create создает чемпионат в одной транзакции с чтением организации: пул XP
// по умолчанию берется из актуального xp_base, а slug игры добавляется в
// список игр организации тем же коммитом.
func (s *championshipService) Create(ctx context.Context, caller *models.User, input CreateChampionshipInput) (*models.Championship, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	var orgID int
	switch {
	case caller.Role == models.RoleOrganizer && caller.OrganizationID != nil:
		orgID = *caller.OrganizationID
	case caller.IsGlobalAdmin() && input.OrganizerID != nil:
		orgID = *input.OrganizerID
	default:
		return nil, ErrNoOrganization
	}

	champ := &models.Championship{
		OrganizerID: orgID,
		Name:        input.Name,
		Description: input.Description,
		Game:        input.Game,
		EventDate:   input.EventDate,
		Status:      models.ChampionshipOpen,
		CreatedBy:   caller.ID,
	}

	err := s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		org, err := s.orgRepo.GetByID(ctx, tx, orgID)
		if err != nil {
			if errors.Is(err, repositories.ErrOrganizationNotFound) {
				return ErrOrganizationNotFound
			}
			return fmt.Errorf("failed to load organization %d: %w", orgID, err)
		}

		pool := input.XPPool
		if pool <= 0 {
			pool = org.XPBase
			if pool <= 0 {
				pool = 1000
			}
		}
		champ.XPPool = pool
		champ.OrganizerName = org.Name

		if err := s.champRepo.Create(ctx, tx, champ); err != nil {
			return err
		}
		if input.Game != nil && *input.Game != "" {
			if err := s.orgRepo.AddGame(ctx, tx, orgID, *input.Game); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrTxRetryLimit) {
			return nil, ErrStoreContention
		}
		return nil, err
	}
	return champ, nil
}

func (s *championshipService) GetByID(ctx context.Context, id int) (*models.Championship, error) {
	champ, err := s.champRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	if champ.Status == models.ChampionshipFinalized {
		results, err := s.champRepo.ListResults(ctx, id)
		if err != nil {
			return nil, err
		}
		champ.Results = results
	}
	return champ, nil
}

func (s *championshipService) ListByOrganization(ctx context.Context, organizationID int) ([]models.Championship, error) {
	return s.champRepo.List(ctx, repositories.ListChampionshipsFilter{OrganizerID: &organizationID})
}

// ListForCaller: глобальный администратор видит все чемпионаты, организатор
// — только чемпионаты своей организации.
func (s *championshipService) ListForCaller(ctx context.Context, caller *models.User) ([]models.Championship, error) {
	if caller.IsGlobalAdmin() {
		return s.champRepo.List(ctx, repositories.ListChampionshipsFilter{})
	}
	if caller.Role == models.RoleOrganizer && caller.OrganizationID != nil {
		return s.champRepo.List(ctx, repositories.ListChampionshipsFilter{OrganizerID: caller.OrganizationID})
	}
	return nil, ErrForbiddenOperation
}
