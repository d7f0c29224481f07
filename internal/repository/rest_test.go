package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/supabase"
)

func setupRestBackend(t *testing.T, handler http.HandlerFunc) *Set {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRestSet(supabase.NewClient(srv.URL, "anon", zap.NewNop()), zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

const noRowsBody = `{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned","details":"The result contains 0 rows","hint":null}`

func TestRestPortadores_List(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/portadores", r.URL.Path)
		assert.Equal(t, "eq.8c1f", r.URL.Query().Get("admin_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		writeJSON(w, http.StatusOK, `[{"id":"p2","admin_id":"8c1f","first_name":"Ana","created_at":"2025-03-01T10:00:00.123456+00:00","updated_at":"2025-03-01T10:00:00.123456+00:00"},{"id":"p1","admin_id":"8c1f","first_name":"Luis"}]`)
	})

	list, err := set.Portadores.ListPortadores(context.Background(), "8c1f")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].FirstName)
	assert.Equal(t, 2025, list[0].CreatedAt.Year())
}

func TestRestContactos_ListOrder(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "priority.asc,created_at.desc", r.URL.Query().Get("order"))
		writeJSON(w, http.StatusOK, `[]`)
	})

	list, err := set.Contactos.ListContactos(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRestPortadores_GetNotFound(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusNotAcceptable, noRowsBody)
	})

	p, err := set.Portadores.GetPortador(context.Background(), "missing")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestInfoMedica_GetAbsentIsNil(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/info_medica", r.URL.Path)
		assert.Equal(t, "eq.p1", r.URL.Query().Get("portador_id"))
		writeJSON(w, http.StatusNotAcceptable, noRowsBody)
	})

	im, err := set.InfoMedica.GetInfoMedica(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Nil(t, im)
}

func TestRestInfoMedica_Upsert(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "portador_id", r.URL.Query().Get("on_conflict"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["portador_id"])
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "created_at")
		writeJSON(w, http.StatusCreated, `{"id":"im-1","portador_id":"p1","blood_type":"O+"}`)
	})

	im, err := set.InfoMedica.UpsertInfoMedica(context.Background(), &domain.InfoMedica{PortadorID: "p1", BloodType: "O+"})
	require.NoError(t, err)
	assert.Equal(t, "im-1", im.ID)
}

func TestRestPortadores_CreateBody(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "created_at")
		assert.NotContains(t, body, "updated_at")
		assert.NotContains(t, body, "nfc_uid")
		assert.Equal(t, "Ana", body["first_name"])
		assert.Equal(t, true, body["public_access_enabled"])
		writeJSON(w, http.StatusCreated, `{"id":"uuid-1","first_name":"Ana","qr_token":"qr-Ana"}`)
	})

	p, err := set.Portadores.CreatePortador(context.Background(), newPortador("8c1f", "Ana", "Diaz"))
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", p.ID)
}

func TestRestAdmins_CreateKeepsPresetID(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "auth-user-1", body["id"])
		writeJSON(w, http.StatusCreated, `{"id":"auth-user-1","email":"ana@example.com"}`)
	})

	a, err := set.Admins.CreateAdmin(context.Background(), &domain.Admin{Record: domain.Record{ID: "auth-user-1"}, Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "auth-user-1", a.ID)
}

func TestRestPortadores_UpdateStripsQRToken(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"lifeband_status": "lost"}, body)
		writeJSON(w, http.StatusOK, `{"id":"p1","lifeband_status":"lost"}`)
	})

	p, err := set.Portadores.UpdatePortador(context.Background(), "p1", Patch{"lifeband_status": "lost", "qr_token": "x"})
	require.NoError(t, err)
	assert.Equal(t, "lost", p.LifebandStatus)
}

func TestRestPortadores_UpdateMissing(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotAcceptable, noRowsBody)
	})

	p, err := set.Portadores.UpdatePortador(context.Background(), "missing", Patch{"first_name": "X"})
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestRestItems_BackendError(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/medicamentos_permanentes", r.URL.Path)
		writeJSON(w, http.StatusForbidden, `{"code":"42501","message":"permission denied for table medicamentos_permanentes"}`)
	})

	_, err := set.MedicamentosPermanentes.List(context.Background(), "im-1")
	require.Error(t, err)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "list", be.Op)
	assert.Equal(t, "medicamentos_permanentes", be.Table)
	assert.Equal(t, "42501", be.Code)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRestItems_Delete(t *testing.T) {
	set := setupRestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/rest/v1/apoyo_emocional", r.URL.Path)
		assert.Equal(t, "eq.a1", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, set.ApoyoEmocional.Delete(context.Background(), "a1"))
}
