package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/functions"
	"lifeband-data/internal/repository"
	"lifeband-data/internal/store"
)

type testEnv struct {
	kv         *store.CachedKV
	repos      *repository.Set
	auth       AuthService
	portadores PortadorService
	contacts   ContactService
	info       InfoMedicaService
	subs       SubscriptionService
}

func setupLocalEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := store.NewCachedKV(store.NewMemoryKV(), store.NewMemoryCache(), zap.NewNop())
	repos := repository.NewLocalSet(kv, zap.NewNop())
	return &testEnv{
		kv:         kv,
		repos:      repos,
		auth:       NewAuthService(repos.Admins, nil, kv, "test-secret", zap.NewNop()),
		portadores: NewPortadorService(repos, functions.Unavailable{}, "api.lifeband.test", zap.NewNop()),
		contacts:   NewContactService(repos, zap.NewNop()),
		info:       NewInfoMedicaService(repos, zap.NewNop()),
		subs:       NewSubscriptionService(repos, zap.NewNop()),
	}
}

func (e *testEnv) createPortador(t *testing.T, adminID string) *domain.Portador {
	t.Helper()
	prof, err := e.portadores.CreateProfile(context.Background(), adminID, CreatePortadorRequest{
		FirstName: "Ana",
		LastName:  "Diaz",
		BirthDate: "1990-05-14",
	})
	require.NoError(t, err)
	return prof.Portador
}

type stubPDF struct {
	url   string
	calls []string
}

func (s *stubPDF) GeneratePDF(_ context.Context, portadorID string) (*functions.PDFResult, error) {
	s.calls = append(s.calls, portadorID)
	return &functions.PDFResult{URL: s.url}, nil
}

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
