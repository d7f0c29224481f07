package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeband-data/internal/collection"
	"lifeband-data/internal/domain"
	"lifeband-data/internal/store"
)

func setupLocalStorage() *store.CachedKV {
	return store.NewCachedKV(store.NewMemoryKV(), store.NewMemoryCache(), zap.NewNop())
}

// fakeClock advances one second per call.
func fakeClock() func() time.Time {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newPortador(adminID, first, last string) *domain.Portador {
	return &domain.Portador{
		AdminID:             adminID,
		FirstName:           first,
		LastName:            last,
		BirthDate:           "1990-05-14",
		SexBiological:       "female",
		Nationality:         "CL",
		PrimaryLanguage:     "es",
		LifebandStatus:      domain.LifebandStatusActive,
		QRToken:             "qr-" + first,
		PublicAccessEnabled: true,
	}
}

func TestLocalPortadores_CreateScenario(t *testing.T) {
	ctx := context.Background()
	kv := setupLocalStorage()
	repo := NewLocalPortadoresRepository(kv, zap.NewNop())
	repo.t.now = fakeClock()

	first, err := repo.CreatePortador(ctx, newPortador("admin_1", "Luis", "Soto"))
	require.NoError(t, err)
	created, err := repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^portador_\d{13}_[0-9a-z]{8}$`), created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.NotEqual(t, first.ID, created.ID)

	list, err := repo.ListPortadores(ctx, "admin_1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].FirstName)
	assert.Equal(t, "Luis", list[1].FirstName)

	// new rows are prepended in the stored array
	stored := collection.Load[domain.Portador](ctx, kv, "lifeband_portadores", nil, nil)
	require.Len(t, stored, 2)
	assert.Equal(t, created.ID, stored[0].ID)
}

func TestLocalPortadores_ListFiltersByAdmin(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalPortadoresRepository(setupLocalStorage(), nil)

	_, _ = repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))
	_, _ = repo.CreatePortador(ctx, newPortador("admin_2", "Eva", "Rojas"))

	list, err := repo.ListPortadores(ctx, "admin_2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Eva", list[0].FirstName)

	empty, err := repo.ListPortadores(ctx, "admin_3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestLocalPortadores_GetAndQRToken(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalPortadoresRepository(setupLocalStorage(), nil)

	p, _ := repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))

	got, err := repo.GetPortador(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diaz", got.LastName)

	byToken, err := repo.GetPortadorByQRToken(ctx, "qr-Ana")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byToken.ID)

	_, err = repo.GetPortador(ctx, "portador_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetPortadorByQRToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalPortadores_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalPortadoresRepository(setupLocalStorage(), nil)
	repo.t.now = fakeClock()

	p, _ := repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))

	updated, err := repo.UpdatePortador(ctx, p.ID, Patch{
		"lifeband_status": "lost",
		"nfc_uid":         "04:A2:19",
		"qr_token":        "forged",
		"unknown_column":  "x",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "lost", updated.LifebandStatus)
	require.NotNil(t, updated.NFCUID)
	assert.Equal(t, "04:A2:19", *updated.NFCUID)
	assert.Equal(t, "qr-Ana", updated.QRToken)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	got, err := repo.GetPortador(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "lost", got.LifebandStatus)
}

func TestLocalPortadores_UpdateMissingReturnsNil(t *testing.T) {
	repo := NewLocalPortadoresRepository(setupLocalStorage(), nil)
	updated, err := repo.UpdatePortador(context.Background(), "portador_missing", Patch{"first_name": "X"})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestLocalPortadores_UpdateInvalidPatch(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalPortadoresRepository(setupLocalStorage(), nil)
	p, _ := repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))

	_, err := repo.UpdatePortador(ctx, p.ID, Patch{"public_access_enabled": "yes"})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	got, _ := repo.GetPortador(ctx, p.ID)
	assert.True(t, got.PublicAccessEnabled)
}

func TestLocalPortadores_DeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	kv := setupLocalStorage()
	set := NewLocalSet(kv, nil)

	p, _ := set.Portadores.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))
	im, err := set.InfoMedica.UpsertInfoMedica(ctx, &domain.InfoMedica{PortadorID: p.ID, BloodType: "O+"})
	require.NoError(t, err)

	require.NoError(t, set.Portadores.DeletePortador(ctx, p.ID))
	_, err = set.Portadores.GetPortador(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	orphan, err := set.InfoMedica.GetInfoMedica(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, orphan)
	assert.Equal(t, im.ID, orphan.ID)

	// deleting an unknown id is a no-op
	assert.NoError(t, set.Portadores.DeletePortador(ctx, "portador_missing"))
}

func TestLocalContactos_PriorityOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalContactosRepository(setupLocalStorage(), nil)
	repo.t.now = fakeClock()

	_, err := repo.CreateContacto(ctx, &domain.ContactoEmergencia{PortadorID: "p1", FullName: "Secundario", Phone: "+56 2", Priority: domain.PrioritySecondary})
	require.NoError(t, err)
	_, err = repo.CreateContacto(ctx, &domain.ContactoEmergencia{PortadorID: "p1", FullName: "Primario", Phone: "+56 1", Priority: domain.PriorityPrimary})
	require.NoError(t, err)
	_, err = repo.CreateContacto(ctx, &domain.ContactoEmergencia{PortadorID: "p1", FullName: "Otro secundario", Phone: "+56 3", Priority: domain.PrioritySecondary})
	require.NoError(t, err)

	list, err := repo.ListContactos(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Primario", list[0].FullName)
	// ties newest first
	assert.Equal(t, "Otro secundario", list[1].FullName)
	assert.Equal(t, "Secundario", list[2].FullName)
}

func TestLocalInfoMedica_UpsertKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	kv := setupLocalStorage()
	repo := NewLocalInfoMedicaRepository(kv, nil)
	repo.t.now = fakeClock()

	none, err := repo.GetInfoMedica(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, none)

	insurer := "Isapre Vida"
	first, err := repo.UpsertInfoMedica(ctx, &domain.InfoMedica{PortadorID: "p1", BloodType: "A+", InsurerContact: &insurer})
	require.NoError(t, err)
	assert.Regexp(t, `^infomedica_`, first.ID)

	second, err := repo.UpsertInfoMedica(ctx, &domain.InfoMedica{PortadorID: "p1", BloodType: "B-"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "B-", second.BloodType)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	// omitted optional fields keep their value
	require.NotNil(t, second.InsurerContact)
	assert.Equal(t, insurer, *second.InsurerContact)

	stored := collection.Load[domain.InfoMedica](ctx, kv, "lifeband_info_medica", nil, nil)
	assert.Len(t, stored, 1)

	got, err := repo.GetInfoMedica(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "B-", got.BloodType)
}

func TestLocalItems_ListByInfoMedica(t *testing.T) {
	ctx := context.Background()
	kv := setupLocalStorage()
	repo := newLocalItemsRepository[domain.Alergia](kv, alergiasTable, nil)
	repo.t.now = fakeClock()

	mk := func(parent, allergy string) *domain.Alergia {
		return &domain.Alergia{Item: domain.Item{InfoMedicaID: parent}, Allergy: allergy, Treatment: "antihistamínico"}
	}
	_, _ = repo.Create(ctx, mk("im1", "Penicilina"))
	_, _ = repo.Create(ctx, mk("im2", "Látex"))
	last, _ := repo.Create(ctx, mk("im1", "Maní"))

	assert.Regexp(t, `^alergia_\d{13}_[0-9a-z]{8}$`, last.ID)

	list, err := repo.List(ctx, "im1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Maní", list[0].Allergy)
	assert.Equal(t, "Penicilina", list[1].Allergy)

	updated, err := repo.Update(ctx, last.ID, Patch{"treatment": "epinefrina", "infomedica_id": "im2"})
	require.NoError(t, err)
	assert.Equal(t, "epinefrina", updated.Treatment)
	assert.Equal(t, "im2", updated.InfoMedicaID)

	require.NoError(t, repo.Delete(ctx, last.ID))
	_, err = repo.Get(ctx, last.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	raw, ok := kv.Get(ctx, "lifeband_alergias")
	require.True(t, ok)
	assert.Contains(t, raw, "Penicilina")
}

func TestLocalAdmins_PresetIDAndEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalAdminsRepository(setupLocalStorage(), nil)

	a, err := repo.CreateAdmin(ctx, &domain.Admin{Record: domain.Record{ID: "admin_fixed"}, Email: "Ana@Example.com", Status: domain.AdminStatusActive})
	require.NoError(t, err)
	assert.Equal(t, "admin_fixed", a.ID)

	got, err := repo.GetAdminByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin_fixed", got.ID)

	_, err = repo.GetAdminByEmail(ctx, "else@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalSubscriptions_ByPortador(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalSubscriptionsRepository(setupLocalStorage(), nil)

	none, err := repo.GetSubscriptionByPortador(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, none)

	s, err := repo.CreateSubscription(ctx, &domain.SubscriptionPortador{
		AdminID: "admin_1", PortadorID: "p1", Plan: domain.PlanAnnual, Status: domain.SubscriptionActive,
		StartDate: "2025-01-01", EndDate: "2026-01-01", AutoRenew: true,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^subscription_`, s.ID)

	got, err := repo.GetSubscriptionByPortador(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	list, err := repo.ListSubscriptions(ctx, "admin_1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLocal_CorruptCollectionReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := setupLocalStorage()
	kv.Set(ctx, "lifeband_portadores", "{not json")
	repo := NewLocalPortadoresRepository(kv, nil)

	list, err := repo.ListPortadores(ctx, "admin_1")
	require.NoError(t, err)
	assert.Empty(t, list)

	// the next write replaces the unreadable value
	_, err = repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))
	require.NoError(t, err)
	list, _ = repo.ListPortadores(ctx, "admin_1")
	assert.Len(t, list, 1)
}

func TestLocal_BrokenDurableStoreStillServes(t *testing.T) {
	ctx := context.Background()
	kv := store.NewCachedKV(brokenKV{}, store.NewMemoryCache(), zap.NewNop())
	repo := NewLocalPortadoresRepository(kv, nil)

	p, err := repo.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))
	require.NoError(t, err)
	got, err := repo.GetPortador(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.True(t, kv.Degraded())
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, error) { return "", assert.AnError }
func (brokenKV) Set(context.Context, string, string) error { return assert.AnError }
func (brokenKV) Delete(context.Context, string) error { return assert.AnError }
