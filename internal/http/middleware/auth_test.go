package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urbanbyte/desempenho/internal/auth"
)

const testSecret = "segredo-de-teste-com-32-bytes!!!"

func TestAuthMiddleware(t *testing.T) {
	mgr := auth.NewJWTManager(testSecret, time.Hour, 7*24*time.Hour)
	org := auth.TokenInput{ID: 7, Username: "alice", Wilaya: "Algiers", Commune: "Algiers", Name: "OrgA"}

	var gotID int64
	handler := Auth(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetOrganizationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("sem token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/workers", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status esperado 401, veio %d", rec.Code)
		}
	})

	t.Run("token lixo", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		req.Header.Set("Authorization", "Bearer nao-e-um-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status esperado 403, veio %d", rec.Code)
		}
	})

	t.Run("token expirado", func(t *testing.T) {
		expiredMgr := auth.NewJWTManager(testSecret, -time.Minute, 7*24*time.Hour)
		token, err := expiredMgr.GenerateAccessToken(org)
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status esperado 403, veio %d", rec.Code)
		}
	})

	t.Run("token válido", func(t *testing.T) {
		token, err := mgr.GenerateAccessToken(org)
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status esperado 200, veio %d", rec.Code)
		}
		if gotID != org.ID {
			t.Fatalf("org no contexto esperado %d, veio %d", org.ID, gotID)
		}
	})
}
