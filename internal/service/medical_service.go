package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
)

// InfoMedicaService medical record header of a portador.
type InfoMedicaService interface {
	// GetInfoMedica (nil, nil) when none was saved yet.
	GetInfoMedica(ctx context.Context, adminID, portadorID string) (*domain.InfoMedica, error)
	SaveInfoMedica(ctx context.Context, adminID, portadorID string, req InfoMedicaRequest) (*domain.InfoMedica, error)
}

type InfoMedicaRequest struct {
	BloodType      string  `json:"blood_type"`
	InsuranceType  *string `json:"insurance_type"`
	InsurerContact *string `json:"insurer_contact"`
}

var bloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

type infoMedicaService struct {
	repo   repository.InfoMedicaRepository
	own    owner
	logger *zap.Logger
}

func NewInfoMedicaService(repos *repository.Set, logger *zap.Logger) InfoMedicaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &infoMedicaService{
		repo:   repos.InfoMedica,
		own:    owner{portadores: repos.Portadores, infoMedica: repos.InfoMedica},
		logger: logger,
	}
}

func (s *infoMedicaService) GetInfoMedica(ctx context.Context, adminID, portadorID string) (*domain.InfoMedica, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	return s.repo.GetInfoMedica(ctx, portadorID)
}

func (s *infoMedicaService) SaveInfoMedica(ctx context.Context, adminID, portadorID string, req InfoMedicaRequest) (*domain.InfoMedica, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	req.BloodType = strings.ToUpper(strings.TrimSpace(req.BloodType))
	if req.BloodType != "" && !bloodTypes[req.BloodType] {
		return nil, invalid("blood_type %q is not valid", req.BloodType)
	}
	return s.repo.UpsertInfoMedica(ctx, &domain.InfoMedica{
		PortadorID:     portadorID,
		BloodType:      req.BloodType,
		InsuranceType:  req.InsuranceType,
		InsurerContact: req.InsurerContact,
	})
}

// MedicalItemService one InfoMedica sub-record kind, scoped to a portador.
type MedicalItemService[T any] interface {
	List(ctx context.Context, adminID, portadorID string) ([]*T, error)
	Create(ctx context.Context, adminID, portadorID string, item *T) (*T, error)
	Update(ctx context.Context, adminID, portadorID, itemID string, patch repository.Patch) (*T, error)
	Delete(ctx context.Context, adminID, portadorID, itemID string) error
}

type medicalItem[T any] interface {
	*T
	Base() *domain.Record
	Parent() *domain.Item
}

type medicalItemService[T any, P medicalItem[T]] struct {
	kind string
	repo repository.MedicalItemsRepository[T]
	own  owner
}

func NewMedicalItemService[T any, P medicalItem[T]](kind string, repo repository.MedicalItemsRepository[T], repos *repository.Set) MedicalItemService[T] {
	return &medicalItemService[T, P]{
		kind: kind,
		repo: repo,
		own:  owner{portadores: repos.Portadores, infoMedica: repos.InfoMedica},
	}
}

func (s *medicalItemService[T, P]) List(ctx context.Context, adminID, portadorID string) ([]*T, error) {
	im, err := s.own.record(ctx, adminID, portadorID)
	if errors.Is(err, repository.ErrNotFound) {
		if _, perr := s.own.portador(ctx, adminID, portadorID); perr != nil {
			return nil, perr
		}
		return []*T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, im.ID)
}

func (s *medicalItemService[T, P]) Create(ctx context.Context, adminID, portadorID string, item *T) (*T, error) {
	im, err := s.own.record(ctx, adminID, portadorID)
	if err != nil {
		return nil, err
	}
	row := *item
	P(&row).Base().ID = ""
	P(&row).Parent().InfoMedicaID = im.ID
	return s.repo.Create(ctx, &row)
}

// owned loads itemID and checks it hangs off the portador's InfoMedica.
func (s *medicalItemService[T, P]) owned(ctx context.Context, adminID, portadorID, itemID string) (*domain.InfoMedica, error) {
	im, err := s.own.record(ctx, adminID, portadorID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if P(item).Parent().InfoMedicaID != im.ID {
		return nil, notFound(s.kind, itemID)
	}
	return im, nil
}

func (s *medicalItemService[T, P]) Update(ctx context.Context, adminID, portadorID, itemID string, patch repository.Patch) (*T, error) {
	if _, err := s.owned(ctx, adminID, portadorID, itemID); err != nil {
		return nil, err
	}
	if _, ok := patch["infomedica_id"]; ok {
		return nil, invalid("infomedica_id cannot be changed")
	}
	item, err := s.repo.Update(ctx, itemID, patch)
	if err != nil {
		return nil, patchError(err)
	}
	if item == nil {
		return nil, notFound(s.kind, itemID)
	}
	return item, nil
}

func (s *medicalItemService[T, P]) Delete(ctx context.Context, adminID, portadorID, itemID string) error {
	if _, err := s.owned(ctx, adminID, portadorID, itemID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, itemID)
}
