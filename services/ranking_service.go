package services

import (
	"context"
	"log/slog"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
	"golang.org/x/sync/errgroup"
)

const rankingLimit = 100

type Ranking struct {
	Players []models.RankingEntry `json:"players"`
	Fans    []models.RankingEntry `json:"fans"`
}

type RankingService interface {
	Get(ctx context.Context) (*Ranking, error)
	GetConfig(ctx context.Context) (*models.RankingConfig, error)
	SetConfig(ctx context.Context, cfg models.RankingConfig) error

	// ResetAllXP обнуляет XP всех пользователей и возвращает их число.
	ResetAllXP(ctx context.Context) (int64, error)
}

type rankingService struct {
	userRepo   repositories.UserRepository
	configRepo repositories.RankingConfigRepository
	logger     *slog.Logger
}

func NewRankingService(userRepo repositories.UserRepository, configRepo repositories.RankingConfigRepository, logger *slog.Logger) RankingService {
	return &rankingService{
		userRepo:   userRepo,
		configRepo: configRepo,
		logger:     logger,
	}
}

// Get собирает два независимых рейтинга — игроков и фанатов — параллельно.
func (s *rankingService) Get(ctx context.Context) (*Ranking, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var players, fans []models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.userRepo.ListRanking(gctx, models.RolePlayer, cfg.MinXPPlayers, rankingLimit)
		return err
	})
	g.Go(func() error {
		var err error
		fans, err = s.userRepo.ListRanking(gctx, models.RoleFan, cfg.MinXPFans, rankingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Ranking{
		Players: toRankingEntries(players),
		Fans:    toRankingEntries(fans),
	}, nil
}

func toRankingEntries(users []models.User) []models.RankingEntry {
	entries := make([]models.RankingEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.RankingEntry{
			Position:        i + 1,
			PlayerID:        u.ID,
			Name:            u.Name,
			XPTotal:         u.XPTotal,
			ProfileImageURL: u.ProfileImageURL,
		})
	}
	return entries
}

func (s *rankingService) GetConfig(ctx context.Context) (*models.RankingConfig, error) {
	return s.configRepo.Get(ctx)
}

func (s *rankingService) SetConfig(ctx context.Context, cfg models.RankingConfig) error {
	return s.configRepo.Upsert(ctx, &cfg)
}

func (s *rankingService) ResetAllXP(ctx context.Context) (int64, error) {
	affected, err := s.userRepo.ResetAllXP(ctx)
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.Info("ranking reset", slog.Int64("users_affected", affected))
	}
	return affected, nil
}
