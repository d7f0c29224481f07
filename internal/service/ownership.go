package service

import (
	"context"
	"errors"
	"fmt"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
)

// owner resolves records reachable by one admin.
type owner struct {
	portadores repository.PortadoresRepository
	infoMedica repository.InfoMedicaRepository
}

func (o owner) portador(ctx context.Context, adminID, portadorID string) (*domain.Portador, error) {
	p, err := o.portadores.GetPortador(ctx, portadorID)
	if err != nil {
		return nil, err
	}
	if p.AdminID != adminID {
		return nil, fmt.Errorf("portador %s: %w", portadorID, ErrForbidden)
	}
	return p, nil
}

// record the portador's InfoMedica; ErrNotFound when none was saved yet.
func (o owner) record(ctx context.Context, adminID, portadorID string) (*domain.InfoMedica, error) {
	if _, err := o.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	im, err := o.infoMedica.GetInfoMedica(ctx, portadorID)
	if err != nil {
		return nil, err
	}
	if im == nil {
		return nil, fmt.Errorf("info medica of portador %s: %w", portadorID, repository.ErrNotFound)
	}
	return im, nil
}

// patchError maps a rejected patch to a validation error.
func patchError(err error) error {
	if errors.Is(err, repository.ErrInvalidPatch) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
}
