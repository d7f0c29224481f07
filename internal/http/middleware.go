package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"lifeband-data/internal/service"
	"lifeband-data/internal/supabase"
)

type adminIDKey struct{}

func withAdminID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, adminIDKey{}, id)
}

// adminID the authenticated admin; set by requireAdmin.
func adminID(r *http.Request) string {
	id, _ := r.Context().Value(adminIDKey{}).(string)
	return id
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireAdmin resolves the caller. A bearer token is verified by the auth
// service; without one, local mode falls back to the implicit device admin.
// In remote mode the token is forwarded so row-level security applies.
func requireAdmin(auth service.AuthService, forwardToken bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearerToken(r)

			var (
				id  string
				err error
			)
			if token != "" {
				id, err = auth.Authenticate(ctx, token)
			} else {
				id, err = auth.CurrentAdminID(ctx)
			}
			if err != nil {
				logger.Debug("request not authenticated", zap.String("path", r.URL.Path), zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, Fail(service.ErrUnauthorized.Error()))
				return
			}

			ctx = withAdminID(ctx, id)
			if forwardToken && token != "" {
				ctx = supabase.WithAccessToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
