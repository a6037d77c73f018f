package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fgcbrasil/platform-backend/db"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
)

type MissionService interface {
	List(ctx context.Context) ([]models.Mission, error)

	// Complete начисляет награду за миссию ровно один раз на пользователя.
	Complete(ctx context.Context, userID, missionID int) (float64, error)
}

type missionService struct {
	runner      db.TxRunner
	missionRepo repositories.MissionRepository
	userRepo    repositories.UserRepository
}

func NewMissionService(runner db.TxRunner, missionRepo repositories.MissionRepository, userRepo repositories.UserRepository) MissionService {
	return &missionService{
		runner:      runner,
		missionRepo: missionRepo,
		userRepo:    userRepo,
	}
}

func (s *missionService) List(ctx context.Context) ([]models.Mission, error) {
	return s.missionRepo.List(ctx)
}

// Проверка "уже выполнена", начисление XP и отметка о выполнении идут одной
// транзакцией, поэтому два конкурентных вызова не начислят награду дважды.
func (s *missionService) Complete(ctx context.Context, userID, missionID int) (float64, error) {
	var reward float64

	err := s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		done, err := s.userRepo.HasCompletedMission(ctx, tx, userID, missionID)
		if err != nil {
			return err
		}
		if done {
			return ErrMissionCompleted
		}

		mission, err := s.missionRepo.GetByID(ctx, tx, missionID)
		if err != nil {
			if errors.Is(err, repositories.ErrMissionNotFound) {
				return ErrMissionNotFound
			}
			return err
		}
		reward = mission.XPReward

		if err := s.userRepo.AddXP(ctx, tx, userID, reward); err != nil {
			return err
		}
		return s.userRepo.AddCompletedMission(ctx, tx, userID, missionID)
	})
	if err != nil {
		if errors.Is(err, db.ErrTxRetryLimit) {
			return 0, ErrStoreContention
		}
		return 0, err
	}
	return reward, nil
}
