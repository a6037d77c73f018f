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

type UpdateOrganizationInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	XPBase      float64 `json:"xp_base"`
	ImageURL    string  `json:"image_url"`
}

type OrganizationService interface {
	List(ctx context.Context) ([]models.Organization, error)
	GetByID(ctx context.Context, id int) (*models.Organization, error)
	Update(ctx context.Context, caller *models.User, id int, input UpdateOrganizationInput) (*models.Organization, error)
	UploadLogo(ctx context.Context, caller *models.User, id int, contentType string, file io.Reader) (string, error)
}

type organizationService struct {
	orgRepo  repositories.OrganizationRepository
	uploader storage.FileUploader
}

func NewOrganizationService(orgRepo repositories.OrganizationRepository, uploader storage.FileUploader) OrganizationService {
	return &organizationService{
		orgRepo:  orgRepo,
		uploader: uploader,
	}
}

func (s *organizationService) List(ctx context.Context) ([]models.Organization, error) {
	return s.orgRepo.List(ctx)
}

func (s *organizationService) GetByID(ctx context.Context, id int) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

// Редактировать организацию может глобальный администратор или ее владелец.
func canManageOrganization(caller *models.User, organizationID int) bool {
	if caller.IsGlobalAdmin() {
		return true
	}
	return caller.OrganizationID != nil && *caller.OrganizationID == organizationID
}

func (s *organizationService) Update(ctx context.Context, caller *models.User, id int, input UpdateOrganizationInput) (*models.Organization, error) {
	if !canManageOrganization(caller, id) {
		return nil, ErrForbiddenOperation
	}

	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	org.Name = input.Name
	org.Description = input.Description
	org.ImageURL = input.ImageURL
	org.XPBase = input.XPBase
	if org.XPBase <= 0 {
		org.XPBase = 1000
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		if errors.Is(err, repositories.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *organizationService) UploadLogo(ctx context.Context, caller *models.User, id int, contentType string, file io.Reader) (string, error) {
	if !canManageOrganization(caller, id) {
		return "", ErrForbiddenOperation
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return "", err
	}

	key := fmt.Sprintf("organizations/%d/logo-%s", id, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload organization logo: %w", err)
	}

	if err := s.orgRepo.UpdateImageURL(ctx, id, result.Location); err != nil {
		return "", err
	}
	return result.Location, nil
}
