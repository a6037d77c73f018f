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

// unknownPlayerName записывается в результат, когда у получателя XP не
// нашлось профиля с именем. XP при этом все равно начисляется.
const unknownPlayerName = "Unknown Player"

// PlacementEntry — один слот верхней сетки, как его присылает клиент.
// Ровно одно из полей PlayerID / ManualName должно быть заполнено.
// XP используется только в режиме finalize-custom.
type PlacementEntry struct {
	PlayerID   *int     `json:"player_id"`
	ManualName *string  `json:"manual_name"`
	Rank       int      `json:"rank"`
	XP         *float64 `json:"xp,omitempty"`
}

type placementKind int

const (
	placementRegistered placementKind = iota
	placementManual
	placementEmpty
)

func (e PlacementEntry) kind() placementKind {
	switch {
	case e.PlayerID != nil:
		return placementRegistered
	case e.ManualName != nil && *e.ManualName != "":
		return placementManual
	default:
		return placementEmpty
	}
}

type StandardFinalizeInput struct {
	TopTier       []PlacementEntry `json:"top_tier"`
	Participation []int            `json:"participation"`
}

type CustomParticipation struct {
	PlayerIDs []int   `json:"player_ids"`
	XP        float64 `json:"xp"`
}

type CustomFinalizeInput struct {
	TopTier       []PlacementEntry    `json:"top_tier"`
	Participation CustomParticipation `json:"participation"`
}

// ledgerUpdate — отложенное изменение счета пользователя. Применяется
// только при успешном коммите транзакции финализации.
type ledgerUpdate struct {
	userID int
	rank   int
	xp     float64
}

// FinalizeNotifier получает уведомление после успешного коммита финализации.
type FinalizeNotifier interface {
	ChampionshipFinalized(championshipID int, xpDistributed float64)
}

type FinalizeService interface {
	FinalizeStandard(ctx context.Context, championshipID, callerID int, input StandardFinalizeInput) (float64, error)
	FinalizeCustom(ctx context.Context, championshipID, callerID int, input CustomFinalizeInput) (float64, error)
}

type finalizeService struct {
	runner    db.TxRunner
	champRepo repositories.ChampionshipRepository
	userRepo  repositories.UserRepository
	notifier  FinalizeNotifier
	logger    *slog.Logger
}

func NewFinalizeService(
	runner db.TxRunner,
	champRepo repositories.ChampionshipRepository,
	userRepo repositories.UserRepository,
	notifier FinalizeNotifier,
	logger *slog.Logger,
) FinalizeService {
	return &finalizeService{
		runner:    runner,
		champRepo: champRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// canFinalize — решение о праве финализации. Принимается по профилю,
// прочитанному в той же транзакции, что и чемпионат, поэтому смена
// организации между проверкой и коммитом невозможна.
func canFinalize(caller *models.User, champ *models.Championship) bool {
	if caller.IsGlobalAdmin() {
		return true
	}
	return caller.OrganizationID != nil && *caller.OrganizationID == champ.OrganizerID
}

func validateTopTier(entries []PlacementEntry) error {
	for _, e := range entries {
		if e.Rank <= 0 {
			return ErrPlacementRankInvalid
		}
		if e.kind() == placementEmpty {
			return ErrPlacementInvalid
		}
	}
	return nil
}

// normalizeStandard классифицирует места стандартного режима: доли берутся
// из фиксированной таблицы, клиентские значения XP не принимаются.
// Зарегистрированный игрок с рангом вне таблицы награды не получает и в
// историю не попадает (как и в ручном вводе участия пустые id
// пропускаются, а не считаются ошибкой).
func normalizeStandard(input StandardFinalizeInput, pool float64) ([]ledgerUpdate, []models.PlacementResult, error) {
	if err := validateTopTier(input.TopTier); err != nil {
		return nil, nil, err
	}

	var updates []ledgerUpdate
	var records []models.PlacementResult

	for _, entry := range input.TopTier {
		switch entry.kind() {
		case placementRegistered:
			if weight, ok := xpWeight(entry.Rank); ok {
				updates = append(updates, ledgerUpdate{
					userID: *entry.PlayerID,
					rank:   entry.Rank,
					xp:     pool * weight,
				})
			}
		case placementManual:
			// Ручная запись: попадает в историю, но не в счета.
			records = append(records, models.PlacementResult{
				PlayerID:    nil,
				DisplayName: *entry.ManualName,
				Rank:        entry.Rank,
				XPAwarded:   0,
			})
		}
	}

	if len(input.Participation) > 0 {
		weight, _ := xpWeight(participationRank)
		flatXP := pool * weight
		for _, playerID := range input.Participation {
			if playerID == 0 {
				continue
			}
			updates = append(updates, ledgerUpdate{
				userID: playerID,
				rank:   participationRank,
				xp:     flatXP,
			})
		}
	}

	return updates, records, nil
}

// normalizeCustom — режим с явными значениями XP: сервер сохраняет их как
// есть, без обращения к таблице долей.
func normalizeCustom(input CustomFinalizeInput) ([]ledgerUpdate, []models.PlacementResult, error) {
	if err := validateTopTier(input.TopTier); err != nil {
		return nil, nil, err
	}

	var updates []ledgerUpdate
	var records []models.PlacementResult

	for _, entry := range input.TopTier {
		switch entry.kind() {
		case placementRegistered:
			if entry.XP != nil && *entry.XP > 0 {
				updates = append(updates, ledgerUpdate{
					userID: *entry.PlayerID,
					rank:   entry.Rank,
					xp:     *entry.XP,
				})
			}
		case placementManual:
			records = append(records, models.PlacementResult{
				PlayerID:    nil,
				DisplayName: *entry.ManualName,
				Rank:        entry.Rank,
				XPAwarded:   0,
			})
		}
	}

	if len(input.Participation.PlayerIDs) > 0 && input.Participation.XP > 0 {
		for _, playerID := range input.Participation.PlayerIDs {
			if playerID == 0 {
				continue
			}
			updates = append(updates, ledgerUpdate{
				userID: playerID,
				rank:   participationRank,
				xp:     input.Participation.XP,
			})
		}
	}

	return updates, records, nil
}

func (s *finalizeService) FinalizeStandard(ctx context.Context, championshipID, callerID int, input StandardFinalizeInput) (float64, error) {
	return s.finalize(ctx, championshipID, callerID, func(pool float64) ([]ledgerUpdate, []models.PlacementResult, error) {
		return normalizeStandard(input, pool)
	})
}

func (s *finalizeService) FinalizeCustom(ctx context.Context, championshipID, callerID int, input CustomFinalizeInput) (float64, error) {
	return s.finalize(ctx, championshipID, callerID, func(float64) ([]ledgerUpdate, []models.PlacementResult, error) {
		return normalizeCustom(input)
	})
}

// finalize выполняет единственный переход open -> finalized. Все чтения и
// записи (статус, результаты, счета всех затронутых пользователей) живут в
// одной сериализуемой транзакции: частичная финализация невозможна, а из
// двух конкурентных вызовов зафиксируется ровно один — второй при повторе
// увидит статус finalized и упадет на идемпотентной проверке.
func (s *finalizeService) finalize(
	ctx context.Context,
	championshipID, callerID int,
	normalize func(pool float64) ([]ledgerUpdate, []models.PlacementResult, error),
) (float64, error) {
	var xpDistributed float64

	err := s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		xpDistributed = 0 // повторная попытка начинает с чистого листа

		champ, err := s.champRepo.GetByID(ctx, tx, championshipID)
		if err != nil {
			if errors.Is(err, repositories.ErrChampionshipNotFound) {
				return ErrChampionshipNotFound
			}
			return fmt.Errorf("failed to load championship %d: %w", championshipID, err)
		}
		if champ.Status == models.ChampionshipFinalized {
			return ErrChampionshipAlreadyFinalized
		}

		caller, err := s.userRepo.GetByID(ctx, tx, callerID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrFinalizeForbidden
			}
			return fmt.Errorf("failed to load caller %d: %w", callerID, err)
		}
		if !canFinalize(caller, champ) {
			return ErrFinalizeForbidden
		}

		updates, records, err := normalize(champ.XPPool)
		if err != nil {
			return err
		}

		// Имена всех получателей читаются одним запросом, а не по одному.
		ids := make([]int, 0, len(updates))
		for _, u := range updates {
			ids = append(ids, u.userID)
		}
		names, err := s.userRepo.GetNamesByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}

		for _, u := range updates {
			name, ok := names[u.userID]
			if !ok {
				name = unknownPlayerName
			}
			if err := s.userRepo.AddXP(ctx, tx, u.userID, u.xp); err != nil {
				return err
			}
			if err := s.userRepo.AddChampionshipParticipation(ctx, tx, u.userID, championshipID); err != nil {
				return err
			}
			records = append(records, models.PlacementResult{
				PlayerID:    &u.userID,
				DisplayName: name,
				Rank:        u.rank,
				XPAwarded:   u.xp,
			})
			xpDistributed += u.xp
		}

		if len(records) > 0 {
			if err := s.champRepo.InsertResults(ctx, tx, championshipID, records); err != nil {
				return err
			}
		}
		return s.champRepo.MarkFinalized(ctx, tx, championshipID)
	})
	if err != nil {
		if errors.Is(err, db.ErrTxRetryLimit) {
			return 0, ErrStoreContention
		}
		return 0, err
	}

	if s.logger != nil {
		s.logger.Info("championship finalized",
			slog.Int("championship_id", championshipID),
			slog.Float64("xp_distributed", xpDistributed),
		)
	}
	if s.notifier != nil {
		s.notifier.ChampionshipFinalized(championshipID, xpDistributed)
	}
	return xpDistributed, nil
}
