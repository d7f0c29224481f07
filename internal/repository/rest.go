package repository

import (
	"context"

	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/supabase"
)

// Rest* repositories talk to the hosted backend. Remote failures surface as
// *BackendError.

// ========== Admins ==========

type RestAdminsRepository struct {
	t *restTable[domain.Admin, *domain.Admin]
}

func NewRestAdminsRepository(c *supabase.Client, logger *zap.Logger) *RestAdminsRepository {
	return &RestAdminsRepository{t: newRestTable[domain.Admin](c, adminsTable, logger)}
}

func (r *RestAdminsRepository) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return r.t.get(ctx, id)
}

func (r *RestAdminsRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.t.getBy(ctx, "email", email)
}

func (r *RestAdminsRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	return r.t.insert(ctx, admin)
}

func (r *RestAdminsRepository) UpdateAdmin(ctx context.Context, id string, patch Patch) (*domain.Admin, error) {
	return r.t.update(ctx, id, patch)
}

func (r *RestAdminsRepository) DeleteAdmin(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== Portadores ==========

type RestPortadoresRepository struct {
	t *restTable[domain.Portador, *domain.Portador]
}

func NewRestPortadoresRepository(c *supabase.Client, logger *zap.Logger) *RestPortadoresRepository {
	return &RestPortadoresRepository{t: newRestTable[domain.Portador](c, portadoresTable, logger)}
}

func (r *RestPortadoresRepository) ListPortadores(ctx context.Context, adminID string) ([]*domain.Portador, error) {
	return r.t.listBy(ctx, "admin_id", adminID)
}

func (r *RestPortadoresRepository) GetPortador(ctx context.Context, id string) (*domain.Portador, error) {
	return r.t.get(ctx, id)
}

func (r *RestPortadoresRepository) GetPortadorByQRToken(ctx context.Context, qrToken string) (*domain.Portador, error) {
	return r.t.getBy(ctx, "qr_token", qrToken)
}

func (r *RestPortadoresRepository) CreatePortador(ctx context.Context, p *domain.Portador) (*domain.Portador, error) {
	return r.t.insert(ctx, p)
}

func (r *RestPortadoresRepository) UpdatePortador(ctx context.Context, id string, patch Patch) (*domain.Portador, error) {
	return r.t.update(ctx, id, patch)
}

func (r *RestPortadoresRepository) DeletePortador(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== InfoMedica ==========

type RestInfoMedicaRepository struct {
	t *restTable[domain.InfoMedica, *domain.InfoMedica]
}

func NewRestInfoMedicaRepository(c *supabase.Client, logger *zap.Logger) *RestInfoMedicaRepository {
	return &RestInfoMedicaRepository{t: newRestTable[domain.InfoMedica](c, infoMedicaTable, logger)}
}

func (r *RestInfoMedicaRepository) GetInfoMedica(ctx context.Context, portadorID string) (*domain.InfoMedica, error) {
	return r.t.findBy(ctx, "portador_id", portadorID)
}

func (r *RestInfoMedicaRepository) GetInfoMedicaByID(ctx context.Context, id string) (*domain.InfoMedica, error) {
	return r.t.get(ctx, id)
}

func (r *RestInfoMedicaRepository) UpsertInfoMedica(ctx context.Context, im *domain.InfoMedica) (*domain.InfoMedica, error) {
	return r.t.upsert(ctx, "portador_id", im)
}

func (r *RestInfoMedicaRepository) DeleteInfoMedica(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== ContactosEmergencia ==========

type RestContactosRepository struct {
	t *restTable[domain.ContactoEmergencia, *domain.ContactoEmergencia]
}

func NewRestContactosRepository(c *supabase.Client, logger *zap.Logger) *RestContactosRepository {
	return &RestContactosRepository{t: newRestTable[domain.ContactoEmergencia](c, contactosTable, logger)}
}

func (r *RestContactosRepository) ListContactos(ctx context.Context, portadorID string) ([]*domain.ContactoEmergencia, error) {
	return r.t.listBy(ctx, "portador_id", portadorID)
}

func (r *RestContactosRepository) GetContacto(ctx context.Context, id string) (*domain.ContactoEmergencia, error) {
	return r.t.get(ctx, id)
}

func (r *RestContactosRepository) CreateContacto(ctx context.Context, c *domain.ContactoEmergencia) (*domain.ContactoEmergencia, error) {
	return r.t.insert(ctx, c)
}

func (r *RestContactosRepository) UpdateContacto(ctx context.Context, id string, patch Patch) (*domain.ContactoEmergencia, error) {
	return r.t.update(ctx, id, patch)
}

func (r *RestContactosRepository) DeleteContacto(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== InfoMedica sub-records ==========

type RestItemsRepository[T any, P child[T]] struct {
	t *restTable[T, P]
}

func newRestItemsRepository[T any, P child[T]](c *supabase.Client, spec table, logger *zap.Logger) *RestItemsRepository[T, P] {
	return &RestItemsRepository[T, P]{t: newRestTable[T, P](c, spec, logger)}
}

func (r *RestItemsRepository[T, P]) List(ctx context.Context, infoMedicaID string) ([]*T, error) {
	return r.t.listBy(ctx, "infomedica_id", infoMedicaID)
}

func (r *RestItemsRepository[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return r.t.get(ctx, id)
}

func (r *RestItemsRepository[T, P]) Create(ctx context.Context, item *T) (*T, error) {
	return r.t.insert(ctx, item)
}

func (r *RestItemsRepository[T, P]) Update(ctx context.Context, id string, patch Patch) (*T, error) {
	return r.t.update(ctx, id, patch)
}

func (r *RestItemsRepository[T, P]) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== Subscriptions ==========

type RestSubscriptionsRepository struct {
	t *restTable[domain.SubscriptionPortador, *domain.SubscriptionPortador]
}

func NewRestSubscriptionsRepository(c *supabase.Client, logger *zap.Logger) *RestSubscriptionsRepository {
	return &RestSubscriptionsRepository{t: newRestTable[domain.SubscriptionPortador](c, subscriptionsTable, logger)}
}

func (r *RestSubscriptionsRepository) ListSubscriptions(ctx context.Context, adminID string) ([]*domain.SubscriptionPortador, error) {
	return r.t.listBy(ctx, "admin_id", adminID)
}

func (r *RestSubscriptionsRepository) GetSubscription(ctx context.Context, id string) (*domain.SubscriptionPortador, error) {
	return r.t.get(ctx, id)
}

func (r *RestSubscriptionsRepository) GetSubscriptionByPortador(ctx context.Context, portadorID string) (*domain.SubscriptionPortador, error) {
	return r.t.findBy(ctx, "portador_id", portadorID)
}

func (r *RestSubscriptionsRepository) CreateSubscription(ctx context.Context, s *domain.SubscriptionPortador) (*domain.SubscriptionPortador, error) {
	return r.t.insert(ctx, s)
}

func (r *RestSubscriptionsRepository) UpdateSubscription(ctx context.Context, id string, patch Patch) (*domain.SubscriptionPortador, error) {
	return r.t.update(ctx, id, patch)
}

func (r *RestSubscriptionsRepository) DeleteSubscription(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}
