package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
)

// AdminService profile of the signed-in admin.
type AdminService interface {
	GetProfile(ctx context.Context, adminID string) (*domain.Admin, error)
	UpdateProfile(ctx context.Context, adminID string, patch repository.Patch) (*domain.Admin, error)
}

// editable by the admin; email, status and credentials are not
var adminEditable = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"country":    true,
	"phone":      true,
	"language":   true,
}

type adminService struct {
	admins repository.AdminsRepository
	logger *zap.Logger
}

func NewAdminService(admins repository.AdminsRepository, logger *zap.Logger) AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &adminService{admins: admins, logger: logger}
}

func (s *adminService) GetProfile(ctx context.Context, adminID string) (*domain.Admin, error) {
	a, err := s.admins.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	pub := a.Public()
	return &pub, nil
}

func (s *adminService) UpdateProfile(ctx context.Context, adminID string, patch repository.Patch) (*domain.Admin, error) {
	clean := repository.Patch{}
	for k, v := range patch {
		if !adminEditable[k] {
			return nil, invalid("field %s cannot be changed", k)
		}
		clean[k] = v
	}
	if len(clean) == 0 {
		return nil, invalid("nothing to update")
	}

	a, err := s.admins.UpdateAdmin(ctx, adminID, clean)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidPatch) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("admin %s: %w", adminID, repository.ErrNotFound)
	}
	pub := a.Public()
	return &pub, nil
}
