package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"lifeband-data/internal/domain"
)

// Postgres* repositories use a direct database connection with the same
// table layout as the hosted backend.

// ========== Admins ==========

type PostgresAdminsRepository struct {
	t *pgTable[domain.Admin, *domain.Admin]
}

func NewPostgresAdminsRepository(db *sql.DB, logger *zap.Logger) *PostgresAdminsRepository {
	return &PostgresAdminsRepository{t: newPgTable[domain.Admin](db, adminsTable, adminFields, logger)}
}

func (r *PostgresAdminsRepository) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return r.t.get(ctx, id)
}

func (r *PostgresAdminsRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.t.getBy(ctx, "email", email)
}

func (r *PostgresAdminsRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	return r.t.insert(ctx, admin)
}

func (r *PostgresAdminsRepository) UpdateAdmin(ctx context.Context, id string, patch Patch) (*domain.Admin, error) {
	return r.t.update(ctx, id, patch)
}

func (r *PostgresAdminsRepository) DeleteAdmin(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== Portadores ==========

type PostgresPortadoresRepository struct {
	t *pgTable[domain.Portador, *domain.Portador]
}

func NewPostgresPortadoresRepository(db *sql.DB, logger *zap.Logger) *PostgresPortadoresRepository {
	return &PostgresPortadoresRepository{t: newPgTable[domain.Portador](db, portadoresTable, portadorFields, logger)}
}

func (r *PostgresPortadoresRepository) ListPortadores(ctx context.Context, adminID string) ([]*domain.Portador, error) {
	return r.t.listBy(ctx, "admin_id", adminID)
}

func (r *PostgresPortadoresRepository) GetPortador(ctx context.Context, id string) (*domain.Portador, error) {
	return r.t.get(ctx, id)
}

func (r *PostgresPortadoresRepository) GetPortadorByQRToken(ctx context.Context, qrToken string) (*domain.Portador, error) {
	return r.t.getBy(ctx, "qr_token", qrToken)
}

func (r *PostgresPortadoresRepository) CreatePortador(ctx context.Context, p *domain.Portador) (*domain.Portador, error) {
	return r.t.insert(ctx, p)
}

func (r *PostgresPortadoresRepository) UpdatePortador(ctx context.Context, id string, patch Patch) (*domain.Portador, error) {
	return r.t.update(ctx, id, patch)
}

func (r *PostgresPortadoresRepository) DeletePortador(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== InfoMedica ==========

type PostgresInfoMedicaRepository struct {
	t *pgTable[domain.InfoMedica, *domain.InfoMedica]
}

func NewPostgresInfoMedicaRepository(db *sql.DB, logger *zap.Logger) *PostgresInfoMedicaRepository {
	return &PostgresInfoMedicaRepository{t: newPgTable[domain.InfoMedica](db, infoMedicaTable, infoMedicaFields, logger)}
}

func (r *PostgresInfoMedicaRepository) GetInfoMedica(ctx context.Context, portadorID string) (*domain.InfoMedica, error) {
	return r.t.findBy(ctx, "portador_id", portadorID)
}

func (r *PostgresInfoMedicaRepository) GetInfoMedicaByID(ctx context.Context, id string) (*domain.InfoMedica, error) {
	return r.t.get(ctx, id)
}

func (r *PostgresInfoMedicaRepository) UpsertInfoMedica(ctx context.Context, im *domain.InfoMedica) (*domain.InfoMedica, error) {
	return r.t.upsert(ctx, "portador_id", im)
}

func (r *PostgresInfoMedicaRepository) DeleteInfoMedica(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== ContactosEmergencia ==========

type PostgresContactosRepository struct {
	t *pgTable[domain.ContactoEmergencia, *domain.ContactoEmergencia]
}

func NewPostgresContactosRepository(db *sql.DB, logger *zap.Logger) *PostgresContactosRepository {
	return &PostgresContactosRepository{t: newPgTable[domain.ContactoEmergencia](db, contactosTable, contactoFields, logger)}
}

func (r *PostgresContactosRepository) ListContactos(ctx context.Context, portadorID string) ([]*domain.ContactoEmergencia, error) {
	return r.t.listBy(ctx, "portador_id", portadorID)
}

func (r *PostgresContactosRepository) GetContacto(ctx context.Context, id string) (*domain.ContactoEmergencia, error) {
	return r.t.get(ctx, id)
}

func (r *PostgresContactosRepository) CreateContacto(ctx context.Context, c *domain.ContactoEmergencia) (*domain.ContactoEmergencia, error) {
	return r.t.insert(ctx, c)
}

func (r *PostgresContactosRepository) UpdateContacto(ctx context.Context, id string, patch Patch) (*domain.ContactoEmergencia, error) {
	return r.t.update(ctx, id, patch)
}

func (r *PostgresContactosRepository) DeleteContacto(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== InfoMedica sub-records ==========

type PostgresItemsRepository[T any, P child[T]] struct {
	t *pgTable[T, P]
}

func newPostgresItemsRepository[T any, P child[T]](db *sql.DB, spec table, fields fieldsFunc[T], logger *zap.Logger) *PostgresItemsRepository[T, P] {
	return &PostgresItemsRepository[T, P]{t: newPgTable[T, P](db, spec, fields, logger)}
}

func (r *PostgresItemsRepository[T, P]) List(ctx context.Context, infoMedicaID string) ([]*T, error) {
	return r.t.listBy(ctx, "infomedica_id", infoMedicaID)
}

func (r *PostgresItemsRepository[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return r.t.get(ctx, id)
}

func (r *PostgresItemsRepository[T, P]) Create(ctx context.Context, item *T) (*T, error) {
	return r.t.insert(ctx, item)
}

func (r *PostgresItemsRepository[T, P]) Update(ctx context.Context, id string, patch Patch) (*T, error) {
	return r.t.update(ctx, id, patch)
}

func (r *PostgresItemsRepository[T, P]) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// ========== Subscriptions ==========

type PostgresSubscriptionsRepository struct {
	t *pgTable[domain.SubscriptionPortador, *domain.SubscriptionPortador]
}

func NewPostgresSubscriptionsRepository(db *sql.DB, logger *zap.Logger) *PostgresSubscriptionsRepository {
	return &PostgresSubscriptionsRepository{t: newPgTable[domain.SubscriptionPortador](db, subscriptionsTable, subscriptionFields, logger)}
}

func (r *PostgresSubscriptionsRepository) ListSubscriptions(ctx context.Context, adminID string) ([]*domain.SubscriptionPortador, error) {
	return r.t.listBy(ctx, "admin_id", adminID)
}

func (r *PostgresSubscriptionsRepository) GetSubscription(ctx context.Context, id string) (*domain.SubscriptionPortador, error) {
	return r.t.get(ctx, id)
}

func (r *PostgresSubscriptionsRepository) GetSubscriptionByPortador(ctx context.Context, portadorID string) (*domain.SubscriptionPortador, error) {
	return r.t.findBy(ctx, "portador_id", portadorID)
}

func (r *PostgresSubscriptionsRepository) CreateSubscription(ctx context.Context, s *domain.SubscriptionPortador) (*domain.SubscriptionPortador, error) {
	return r.t.insert(ctx, s)
}

func (r *PostgresSubscriptionsRepository) UpdateSubscription(ctx context.Context, id string, patch Patch) (*domain.SubscriptionPortador, error) {
	return r.t.update(ctx, id, patch)
}

func (r *PostgresSubscriptionsRepository) DeleteSubscription(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}
