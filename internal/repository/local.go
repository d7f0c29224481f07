package repository

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lifeband-data/internal/collection"
	"lifeband-data/internal/domain"
)

// Local* repositories keep every table in the device key-value store. They
// never surface storage errors; ErrNotFound comes only from point lookups.

// ========== Admins ==========

type LocalAdminsRepository struct {
	t *localTable[domain.Admin, *domain.Admin]
}

func NewLocalAdminsRepository(s collection.Storage, logger *zap.Logger) *LocalAdminsRepository {
	return &LocalAdminsRepository{t: newLocalTable[domain.Admin](s, adminsTable, logger)}
}

func (r *LocalAdminsRepository) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return r.t.get(ctx, id)
}

func (r *LocalAdminsRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	a := r.t.find(ctx, func(a *domain.Admin) bool { return strings.EqualFold(a.Email, email) })
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (r *LocalAdminsRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	return r.t.insert(ctx, admin), nil
}

func (r *LocalAdminsRepository) UpdateAdmin(ctx context.Context, id string, patch Patch) (*domain.Admin, error) {
	return r.t.update(ctx, id, patch)
}

func (r *LocalAdminsRepository) DeleteAdmin(ctx context.Context, id string) error {
	r.t.delete(ctx, id)
	return nil
}

// ========== Portadores ==========

type LocalPortadoresRepository struct {
	t *localTable[domain.Portador, *domain.Portador]
}

func NewLocalPortadoresRepository(s collection.Storage, logger *zap.Logger) *LocalPortadoresRepository {
	return &LocalPortadoresRepository{t: newLocalTable[domain.Portador](s, portadoresTable, logger)}
}

func (r *LocalPortadoresRepository) ListPortadores(ctx context.Context, adminID string) ([]*domain.Portador, error) {
	return r.t.list(ctx, func(p *domain.Portador) bool { return p.AdminID == adminID }, r.t.newestFirst), nil
}

func (r *LocalPortadoresRepository) GetPortador(ctx context.Context, id string) (*domain.Portador, error) {
	return r.t.get(ctx, id)
}

func (r *LocalPortadoresRepository) GetPortadorByQRToken(ctx context.Context, qrToken string) (*domain.Portador, error) {
	p := r.t.find(ctx, func(p *domain.Portador) bool { return p.QRToken == qrToken })
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *LocalPortadoresRepository) CreatePortador(ctx context.Context, p *domain.Portador) (*domain.Portador, error) {
	return r.t.insert(ctx, p), nil
}

func (r *LocalPortadoresRepository) UpdatePortador(ctx context.Context, id string, patch Patch) (*domain.Portador, error) {
	return r.t.update(ctx, id, patch)
}

func (r *LocalPortadoresRepository) DeletePortador(ctx context.Context, id string) error {
	r.t.delete(ctx, id)
	return nil
}

// ========== InfoMedica ==========

type LocalInfoMedicaRepository struct {
	t *localTable[domain.InfoMedica, *domain.InfoMedica]
}

func NewLocalInfoMedicaRepository(s collection.Storage, logger *zap.Logger) *LocalInfoMedicaRepository {
	return &LocalInfoMedicaRepository{t: newLocalTable[domain.InfoMedica](s, infoMedicaTable, logger)}
}

func (r *LocalInfoMedicaRepository) GetInfoMedica(ctx context.Context, portadorID string) (*domain.InfoMedica, error) {
	return r.t.find(ctx, func(im *domain.InfoMedica) bool { return im.PortadorID == portadorID }), nil
}

func (r *LocalInfoMedicaRepository) GetInfoMedicaByID(ctx context.Context, id string) (*domain.InfoMedica, error) {
	return r.t.get(ctx, id)
}

func (r *LocalInfoMedicaRepository) UpsertInfoMedica(ctx context.Context, im *domain.InfoMedica) (*domain.InfoMedica, error) {
	portadorID := im.PortadorID
	return r.t.upsert(ctx, func(v *domain.InfoMedica) bool { return v.PortadorID == portadorID }, im)
}

func (r *LocalInfoMedicaRepository) DeleteInfoMedica(ctx context.Context, id string) error {
	r.t.delete(ctx, id)
	return nil
}

// ========== ContactosEmergencia ==========

type LocalContactosRepository struct {
	t *localTable[domain.ContactoEmergencia, *domain.ContactoEmergencia]
}

func NewLocalContactosRepository(s collection.Storage, logger *zap.Logger) *LocalContactosRepository {
	return &LocalContactosRepository{t: newLocalTable[domain.ContactoEmergencia](s, contactosTable, logger)}
}

func (r *LocalContactosRepository) ListContactos(ctx context.Context, portadorID string) ([]*domain.ContactoEmergencia, error) {
	return r.t.list(ctx,
		func(c *domain.ContactoEmergencia) bool { return c.PortadorID == portadorID },
		func(a, b *domain.ContactoEmergencia) bool {
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
			return a.CreatedAt.After(b.CreatedAt)
		}), nil
}

func (r *LocalContactosRepository) GetContacto(ctx context.Context, id string) (*domain.ContactoEmergencia, error) {
	return r.t.get(ctx, id)
}

func (r *LocalContactosRepository) CreateContacto(ctx context.Context, c *domain.ContactoEmergencia) (*domain.ContactoEmergencia, error) {
	return r.t.insert(ctx, c), nil
}

func (r *LocalContactosRepository) UpdateContacto(ctx context.Context, id string, patch Patch) (*domain.ContactoEmergencia, error) {
	return r.t.update(ctx, id, patch)
}

func (r *LocalContactosRepository) DeleteContacto(ctx context.Context, id string) error {
	r.t.delete(ctx, id)
	return nil
}

// ========== InfoMedica sub-records ==========

type LocalItemsRepository[T any, P child[T]] struct {
	t *localTable[T, P]
}

func newLocalItemsRepository[T any, P child[T]](s collection.Storage, spec table, logger *zap.Logger) *LocalItemsRepository[T, P] {
	return &LocalItemsRepository[T, P]{t: newLocalTable[T, P](s, spec, logger)}
}

func (r *LocalItemsRepository[T, P]) List(ctx context.Context, infoMedicaID string) ([]*T, error) {
	return r.t.list(ctx, func(v *T) bool { return P(v).Parent().InfoMedicaID == infoMedicaID }, r.t.newestFirst), nil
}

func (r *LocalItemsRepository[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return r.t.get(ctx, id)
}

func (r *LocalItemsRepository[T, P]) Create(ctx context.Context, item *T) (*T, error) {
	return r.t.insert(ctx, item), nil
}

func (r *LocalItemsRepository[T, P]) Update(ctx context.Context, id string, patch Patch) (*T, error) {
	return r.t.update(ctx, id, patch)
}

func (r *LocalItemsRepository[T, P]) Delete(ctx context.Context, id string) error {
	r.t.delete(ctx, id)
	return nil
}

// ========== Subscriptions ==========

type LocalSubscriptionsRepository struct {
	t *localTable[domain.SubscriptionPortador, *domain.SubscriptionPortador]
}

func NewLocalSubscriptionsRepository(s collection.Storage, logger *zap.Logger) *LocalSubscriptionsRepository {
	return &LocalSubscriptionsRepository{t: newLocalTable[domain.SubscriptionPortador](s, subscriptionsTable, logger)}
}

func (r *LocalSubscriptionsRepository) ListSubscriptions(ctx context.Context, adminID string) ([]*domain.SubscriptionPortador, error) {
	return r.t.list(ctx, func(s *domain.SubscriptionPortador) bool { return s.AdminID == adminID }, r.t.newestFirst), nil
}

func (r *LocalSubscriptionsRepository) GetSubscription(ctx context.Context, id string) (*domain.SubscriptionPortador, error) {
	return r.t.get(ctx, id)
}

func (r *LocalSubscriptionsRepository) GetSubscriptionByPortador(ctx context.Context, portadorID string) (*domain.SubscriptionPortador, error) {
	return r.t.find(ctx, func(s *domain.SubscriptionPortador) bool { return s.PortadorID == portadorID }), nil
}

func (r *LocalSubscriptionsRepository) CreateSubscription(ctx context.Context, s *domain.SubscriptionPortador) (*domain.SubscriptionPortador, error) {
	return r.t.insert(ctx, s), nil
}

func (r *LocalSubscriptionsRepository) UpdateSubscription(ctx context.Context, id string, patch Patch) (*domain.SubscriptionPortador, error) {
	return r.t.update(ctx, id, patch)
}

func (r *LocalSubscriptionsRepository) DeleteSubscription(ctx context.Context, id string) error {
	r.t.delete(ctx, id)
	return nil
}
