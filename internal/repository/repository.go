package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifeband-data/internal/domain"
)

var (
	// ErrNotFound point lookup matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidPatch patch value does not fit the column type.
	ErrInvalidPatch = errors.New("invalid patch")
)

// Patch partial update keyed by column name. Keys outside the table's
// writable columns are ignored; id, created_at, updated_at and immutable
// columns (qr_token) can never be patched.
type Patch map[string]any

// BackendError failure reported by a remote backend.
type BackendError struct {
	Op    string
	Table string
	Code  string
	Err   error
}

func (e *BackendError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s failed (%s): %v", e.Op, e.Table, e.Code, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// entity record types handled by the generic tables.
type entity[T any] interface {
	*T
	Base() *domain.Record
	Stamp(now time.Time)
	Touch(now time.Time)
}

// child InfoMedica sub-record types.
type child[T any] interface {
	entity[T]
	Parent() *domain.Item
}

// ========== Admins ==========

type AdminsRepository interface {
	GetAdmin(ctx context.Context, id string) (*domain.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// CreateAdmin keeps a preset id (auth user id / local admin id).
	CreateAdmin(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	UpdateAdmin(ctx context.Context, id string, patch Patch) (*domain.Admin, error)
	DeleteAdmin(ctx context.Context, id string) error
}

// ========== Portadores ==========

type PortadoresRepository interface {
	// ListPortadores newest first.
	ListPortadores(ctx context.Context, adminID string) ([]*domain.Portador, error)
	GetPortador(ctx context.Context, id string) (*domain.Portador, error)
	// GetPortadorByQRToken public lookup key.
	GetPortadorByQRToken(ctx context.Context, qrToken string) (*domain.Portador, error)
	CreatePortador(ctx context.Context, p *domain.Portador) (*domain.Portador, error)
	// UpdatePortador returns (nil, nil) when id does not exist.
	UpdatePortador(ctx context.Context, id string, patch Patch) (*domain.Portador, error)
	// DeletePortador does not cascade to info medica, contacts or subscriptions.
	DeletePortador(ctx context.Context, id string) error
}

// ========== InfoMedica ==========

type InfoMedicaRepository interface {
	// GetInfoMedica 1:1 lookup by portador; (nil, nil) when absent.
	GetInfoMedica(ctx context.Context, portadorID string) (*domain.InfoMedica, error)
	GetInfoMedicaByID(ctx context.Context, id string) (*domain.InfoMedica, error)
	// UpsertInfoMedica conflicts on portador_id: at most one record per portador.
	UpsertInfoMedica(ctx context.Context, im *domain.InfoMedica) (*domain.InfoMedica, error)
	DeleteInfoMedica(ctx context.Context, id string) error
}

// ========== ContactosEmergencia ==========

type ContactosRepository interface {
	// ListContactos priority ascending.
	ListContactos(ctx context.Context, portadorID string) ([]*domain.ContactoEmergencia, error)
	GetContacto(ctx context.Context, id string) (*domain.ContactoEmergencia, error)
	CreateContacto(ctx context.Context, c *domain.ContactoEmergencia) (*domain.ContactoEmergencia, error)
	UpdateContacto(ctx context.Context, id string, patch Patch) (*domain.ContactoEmergencia, error)
	DeleteContacto(ctx context.Context, id string) error
}

// ========== InfoMedica sub-records ==========

// MedicalItemsRepository one per sub-record table.
type MedicalItemsRepository[T any] interface {
	// List newest first.
	List(ctx context.Context, infoMedicaID string) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id string, patch Patch) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ========== Subscriptions ==========

type SubscriptionsRepository interface {
	ListSubscriptions(ctx context.Context, adminID string) ([]*domain.SubscriptionPortador, error)
	GetSubscription(ctx context.Context, id string) (*domain.SubscriptionPortador, error)
	// GetSubscriptionByPortador 1:1 lookup; (nil, nil) when absent.
	GetSubscriptionByPortador(ctx context.Context, portadorID string) (*domain.SubscriptionPortador, error)
	CreateSubscription(ctx context.Context, s *domain.SubscriptionPortador) (*domain.SubscriptionPortador, error)
	UpdateSubscription(ctx context.Context, id string, patch Patch) (*domain.SubscriptionPortador, error)
	DeleteSubscription(ctx context.Context, id string) error
}
