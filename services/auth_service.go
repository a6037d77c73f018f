package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgcbrasil/platform-backend/db"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role"`
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type authService struct {
	runner   db.TxRunner
	userRepo repositories.UserRepository
	orgRepo  repositories.OrganizationRepository
}

func NewAuthService(runner db.TxRunner, userRepo repositories.UserRepository, orgRepo repositories.OrganizationRepository) AuthService {
	return &authService{
		runner:   runner,
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// Register создает пользователя. Для организатора в той же транзакции
// создается его организация с базовым пулом XP — пользователь без
// организации или организация без владельца появиться не могут.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	switch input.Role {
	case models.RoleOrganizer, models.RolePlayer, models.RoleFan:
	default:
		return nil, ErrValidationFailed
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Name:         input.Name,
		Role:         input.Role,
	}

	err = s.runner.RunInTx(ctx, func(tx *sql.Tx) error {
		user.OrganizationID = nil
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}
		if input.Role == models.RoleOrganizer {
			org := &models.Organization{
				Name:        input.Name,
				Description: fmt.Sprintf("Organização de %s", input.Name),
				AdminUserID: user.ID,
				XPBase:      1000,
				Games:       []string{},
			}
			if err := s.orgRepo.Create(ctx, tx, org); err != nil {
				return err
			}
			if err := s.userRepo.SetOrganization(ctx, tx, user.ID, org.ID); err != nil {
				return err
			}
			user.OrganizationID = &org.ID
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		if errors.Is(err, db.ErrTxRetryLimit) {
			return nil, ErrStoreContention
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrAuthInvalidCredentials
	}
	return user, nil
}
