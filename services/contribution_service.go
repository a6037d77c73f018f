package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fgcbrasil/platform-backend/db"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
)

type RegisterDonationInput struct {
	Type        models.DonationType `json:"type"`
	SponsorName string              `json:"sponsor_name"`
	FanID       *int                `json:"fan_id"`
	Amount      float64             `json:"amount"`
	Activity    string              `json:"activity"`
	XPOffered   float64             `json:"xp_offered"`
}

type ContributionService interface {
	// Contribute регистрирует донат болельщика и начисляет ему XP
	// (10 XP за единицу суммы) одним коммитом.
	Contribute(ctx context.Context, fanID int, amount float64) (*models.Contribution, error)
	Total(ctx context.Context) (float64, error)
	RegisterDonation(ctx context.Context, input RegisterDonationInput) (*models.Donation, error)
}

type contributionService struct {
	runner           db.TxRunner
	contributionRepo repositories.ContributionRepository
	donationRepo     repositories.DonationRepository
	userRepo         repositories.UserRepository
}

func NewContributionService(
	runner db.TxRunner,
	contributionRepo repositories.ContributionRepository,
	donationRepo repositories.DonationRepository,
	userRepo repositories.UserRepository,
) ContributionService {
	return &contributionService{
		runner:           runner,
		contributionRepo: contributionRepo,
		donationRepo:     donationRepo,
		userRepo:         userRepo,
	}
}

func (s *contributionService) Contribute(ctx context.Context, fanID int, amount float64) (*models.Contribution, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	contribution := &models.Contribution{
		FanID:       fanID,
		Amount:      amount,
		XPGenerated: contributionXP(amount),
	}

	err := s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.contributionRepo.Create(ctx, tx, contribution); err != nil {
			return err
		}
		return s.userRepo.AddXP(ctx, tx, fanID, float64(contribution.XPGenerated))
	})
	if err != nil {
		if errors.Is(err, db.ErrTxRetryLimit) {
			return nil, ErrStoreContention
		}
		return nil, err
	}
	return contribution, nil
}

func (s *contributionService) Total(ctx context.Context) (float64, error) {
	return s.contributionRepo.TotalAmount(ctx)
}

// RegisterDonation фиксирует спонсорство. Для фаната спонсором считается
// сам фанат: его имя резолвится по профилю, и если спонсорство несет XP,
// бонус начисляется тем же коммитом.
func (s *contributionService) RegisterDonation(ctx context.Context, input RegisterDonationInput) (*models.Donation, error) {
	donation := &models.Donation{
		SponsorName: input.SponsorName,
		Amount:      input.Amount,
		Activity:    input.Activity,
		XPOffered:   input.XPOffered,
	}

	if input.Type == models.DonationFan {
		if input.FanID == nil {
			return nil, ErrValidationFailed
		}
		fan, err := s.userRepo.GetByID(ctx, nil, *input.FanID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrFanNotFound
			}
			return nil, err
		}
		if fan.Role != models.RoleFan {
			return nil, ErrFanNotFound
		}
		donation.SponsorName = fan.Name
		donation.FanID = input.FanID
	}

	if donation.SponsorName == "" {
		return nil, ErrSponsorNameRequired
	}

	err := s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		if donation.FanID != nil && donation.XPOffered > 0 {
			if err := s.userRepo.AddXP(ctx, tx, *donation.FanID, donation.XPOffered); err != nil {
				return err
			}
		}
		return s.donationRepo.Create(ctx, tx, donation)
	})
	if err != nil {
		if errors.Is(err, db.ErrTxRetryLimit) {
			return nil, ErrStoreContention
		}
		return nil, err
	}
	return donation, nil
}
