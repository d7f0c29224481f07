package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
)

// ContactService emergency contacts of a portador.
type ContactService interface {
	ListContactos(ctx context.Context, adminID, portadorID string) ([]*domain.ContactoEmergencia, error)
	CreateContacto(ctx context.Context, adminID, portadorID string, req ContactInput) (*domain.ContactoEmergencia, error)
	UpdateContacto(ctx context.Context, adminID, portadorID, contactoID string, patch repository.Patch) (*domain.ContactoEmergencia, error)
	DeleteContacto(ctx context.Context, adminID, portadorID, contactoID string) error
}

type contactService struct {
	repo   repository.ContactosRepository
	own    owner
	logger *zap.Logger
}

func NewContactService(repos *repository.Set, logger *zap.Logger) ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contactService{
		repo:   repos.Contactos,
		own:    owner{portadores: repos.Portadores, infoMedica: repos.InfoMedica},
		logger: logger,
	}
}

func (s *contactService) ListContactos(ctx context.Context, adminID, portadorID string) ([]*domain.ContactoEmergencia, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	return s.repo.ListContactos(ctx, portadorID)
}

func (s *contactService) CreateContacto(ctx context.Context, adminID, portadorID string, req ContactInput) (*domain.ContactoEmergencia, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.FullName == "" || req.Phone == "" {
		return nil, invalid("full_name and phone are required")
	}
	if !domain.ValidPriority(req.Priority) {
		return nil, invalid("priority must be 1 or 2")
	}
	return s.repo.CreateContacto(ctx, &domain.ContactoEmergencia{
		PortadorID: portadorID,
		FullName:   req.FullName,
		Relation:   req.Relation,
		Phone:      req.Phone,
		Priority:   req.Priority,
	})
}

func (s *contactService) owned(ctx context.Context, adminID, portadorID, contactoID string) error {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return err
	}
	c, err := s.repo.GetContacto(ctx, contactoID)
	if err != nil {
		return err
	}
	if c.PortadorID != portadorID {
		return notFound("contacto", contactoID)
	}
	return nil
}

func (s *contactService) UpdateContacto(ctx context.Context, adminID, portadorID, contactoID string, patch repository.Patch) (*domain.ContactoEmergencia, error) {
	if err := s.owned(ctx, adminID, portadorID, contactoID); err != nil {
		return nil, err
	}
	if v, ok := patch["priority"]; ok {
		if n, ok := intValue(v); !ok || !domain.ValidPriority(n) {
			return nil, invalid("priority must be 1 or 2")
		}
	}
	if _, ok := patch["portador_id"]; ok {
		return nil, invalid("portador_id cannot be changed")
	}
	c, err := s.repo.UpdateContacto(ctx, contactoID, patch)
	if err != nil {
		return nil, patchError(err)
	}
	if c == nil {
		return nil, notFound("contacto", contactoID)
	}
	return c, nil
}

func (s *contactService) DeleteContacto(ctx context.Context, adminID, portadorID, contactoID string) error {
	if err := s.owned(ctx, adminID, portadorID, contactoID); err != nil {
		return err
	}
	return s.repo.DeleteContacto(ctx, contactoID)
}

// intValue accepts ints and integral JSON numbers.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
