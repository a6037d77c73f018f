package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
	"github.com/fgcbrasil/platform-backend/storage"
	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	ProfileImageURL string  `json:"profile_image_url"`
	TeamName        *string `json:"team_name"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	UpdateProfile(ctx context.Context, caller *models.User, input UpdateProfileInput) error
	UploadAvatar(ctx context.Context, caller *models.User, contentType string, file io.Reader) (string, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListAll(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx, repositories.ListUsersFilter{})
}

func (s *userService) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	return s.userRepo.List(ctx, repositories.ListUsersFilter{Role: &role})
}

// UpdateProfile: название команды может менять только игрок, остальным
// поле просто не обновляется.
func (s *userService) UpdateProfile(ctx context.Context, caller *models.User, input UpdateProfileInput) error {
	teamName := input.TeamName
	if caller.Role != models.RolePlayer {
		teamName = nil
	}
	err := s.userRepo.UpdateProfile(ctx, caller.ID, input.ProfileImageURL, teamName)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, caller *models.User, contentType string, file io.Reader) (string, error) {
	key := fmt.Sprintf("users/%d/avatar-%s", caller.ID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	var teamName *string
	if err := s.userRepo.UpdateProfile(ctx, caller.ID, result.Location, teamName); err != nil {
		return "", err
	}
	return result.Location, nil
}
