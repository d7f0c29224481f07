package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "anon-key", zap.NewNop())
}

func TestSelect_FiltersAndOrder(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/portadores", r.URL.Path)
		assert.Equal(t, "eq.admin-1", r.URL.Query().Get("admin_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a","name":"Ana"},{"id":"b","name":"Luis"}]`))
	})

	var rows []row
	err := c.From("portadores").Eq("admin_id", "admin-1").Order("created_at", false).Select(context.Background(), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0].Name)
}

func TestSelect_OrderAppends(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "priority.asc,created_at.desc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[]`))
	})

	var rows []row
	require.NoError(t, c.From("contactos_emergencia").Order("priority", true).Order("created_at", false).Select(context.Background(), &rows))
	assert.Empty(t, rows)
}

func TestSingle_NoRows(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, mediaSingleObject, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned","details":"The result contains 0 rows","hint":null}`))
	})

	var out row
	err := c.From("info_medica").Eq("portador_id", "p1").Single().Select(context.Background(), &out)
	require.Error(t, err)
	assert.True(t, IsNoRows(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotAcceptable, apiErr.Status)
	assert.Equal(t, "The result contains 0 rows", apiErr.Details)
}

func TestUpsert_Headers(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "portador_id", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "resolution=merge-duplicates,return=representation", r.Header.Get("Prefer"))
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "O+", got["blood_type"])
		_, _ = w.Write([]byte(`{"id":"im-1","name":"x"}`))
	})

	var out row
	err := c.From("info_medica").Single().Upsert(context.Background(), map[string]any{"portador_id": "p1", "blood_type": "O+"}, "portador_id", &out)
	require.NoError(t, err)
	assert.Equal(t, "im-1", out.ID)
}

func TestAccessTokenOverridesAnonKey(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := WithAccessToken(context.Background(), "user-token")
	require.NoError(t, c.From("alergias").Eq("id", "x").Delete(ctx))
}

func TestSignIn(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600,"user":{"id":"u1","email":"ana@example.com"}}`))
	})

	s, err := c.SignIn(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)
	assert.Equal(t, "u1", s.User.ID)
}

func TestSignIn_AuthError(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignIn(context.Background(), "ana@example.com", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
	assert.False(t, IsNoRows(err))
}

func TestSignUp_WithoutSession(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana", body["data"].(map[string]any)["first_name"])
		_, _ = w.Write([]byte(`{"id":"u2","email":"ana@example.com"}`))
	})

	s, err := c.SignUp(context.Background(), "ana@example.com", "secret123", map[string]any{"first_name": "Ana"})
	require.NoError(t, err)
	assert.Empty(t, s.AccessToken)
	assert.Equal(t, "u2", s.User.ID)
}
