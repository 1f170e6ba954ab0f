package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/api/middleware"
	"loan-engine/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-jwt-secret-key",
		TokenTTL:  time.Hour,
	}
}

func TestGenerateBearerToken(t *testing.T) {
	cfg := newTestAuthConfig()
	handler := NewAuthHandler(cfg, logger)
	fixed := time.Now().Truncate(time.Second)
	handler.now = func() time.Time { return fixed }

	t.Run("successfully generates token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", `{"username":"testuser"}`, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, strings.HasPrefix(resp.Token, "Bearer "))
		assert.True(t, resp.ExpiresAt.Equal(fixed.Add(time.Hour)))
	})

	t.Run("token is accepted by the auth middleware", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", `{"username":"maria"}`, nil))
		var resp dto.TokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		var seen string
		protected := middleware.AuthMiddleware(cfg, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = approver(r)
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/loans", nil)
		req.Header.Set("Authorization", resp.Token)
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)

		assert.Equal(t, http.StatusOK, out.Code)
		assert.Equal(t, "maria", seen)
	})

	t.Run("fails with invalid request body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", "invalid json", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error, "invalid input")
	})

	t.Run("fails with empty username", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", `{"username":"  "}`, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "username", decodeError(t, rec).Field)
	})
}
