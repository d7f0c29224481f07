package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/supabase"
)

func TestSelect_UnconfiguredNeverCallsRemote(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx := context.Background()
	set := Select(Backends{
		Remote:     supabase.NewClient(srv.URL, "anon", zap.NewNop()),
		Configured: false,
		Local:      setupLocalStorage(),
	}, zap.NewNop())
	require.Equal(t, ModeLocal, set.Mode)

	p, err := set.Portadores.CreatePortador(ctx, newPortador("admin_1", "Ana", "Diaz"))
	require.NoError(t, err)
	_, err = set.Portadores.ListPortadores(ctx, "admin_1")
	require.NoError(t, err)
	_, err = set.InfoMedica.UpsertInfoMedica(ctx, &domain.InfoMedica{PortadorID: p.ID, BloodType: "O+"})
	require.NoError(t, err)
	_, err = set.Contactos.CreateContacto(ctx, &domain.ContactoEmergencia{PortadorID: p.ID, FullName: "Marta", Phone: "1", Priority: 1})
	require.NoError(t, err)
	_, err = set.ApoyoEmocional.List(ctx, "im")
	require.NoError(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestSelect_Modes(t *testing.T) {
	remote := supabase.NewClient("https://abc.supabase.co", "key", zap.NewNop())

	assert.Equal(t, ModeRest, Select(Backends{Remote: remote, Configured: true, Local: setupLocalStorage()}, nil).Mode)
	assert.Equal(t, ModeLocal, Select(Backends{Configured: true, Local: setupLocalStorage()}, nil).Mode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, ModePostgres, Select(Backends{DB: db, Remote: remote, Configured: true}, nil).Mode)
}

func TestTable_Writable(t *testing.T) {
	got := portadoresTable.writable(Patch{"first_name": "Ana", "qr_token": "x", "id": "y", "created_at": "z", "bogus": 1})
	assert.Equal(t, Patch{"first_name": "Ana"}, got)
}
