package identity

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/urbanbyte/desempenho/internal/auth"
	httpmiddleware "github.com/urbanbyte/desempenho/internal/http/middleware"
)

func newTestRouter(t *testing.T) (chi.Router, *Service) {
	t.Helper()

	key := make([]byte, auth.KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("gerar chave: %v", err)
	}
	cipher, err := auth.NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	jwtMgr := auth.NewJWTManager("segredo-de-teste-para-handlers!!!", time.Hour, 7*24*time.Hour)
	svc := NewService(newStubRepo(), cipher, jwtMgr)
	handler := NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			handler.RegisterPublicRoutes(public)
		})
		api.Group(func(private chi.Router) {
			private.Use(httpmiddleware.Auth(svc.JWT()))
			handler.RegisterProtectedRoutes(private)
		})
	})
	return r, svc
}

func postJSON(t *testing.T, router http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdentityEndToEnd(t *testing.T) {
	router, _ := newTestRouter(t)

	register := map[string]string{
		"username": "alice",
		"password": "password1",
		"wilaya":   "Algiers",
		"commune":  "Algiers",
		"name":     "OrgA",
	}
	if rec := postJSON(t, router, "/api/identity/register", register, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: esperado 201, veio %d (%s)", rec.Code, rec.Body)
	}

	rec := postJSON(t, router, "/api/identity/login", map[string]string{
		"username": "alice", "password": "password1",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: esperado 200, veio %d (%s)", rec.Code, rec.Body)
	}

	var loginBody struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decodificar login: %v", err)
	}
	if loginBody.Data.AccessToken == "" || loginBody.Data.RefreshToken == "" {
		t.Fatalf("tokens ausentes na resposta: %s", rec.Body)
	}

	// Rota protegida com token válido.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginBody.Data.AccessToken)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, req)
	if meRec.Code != http.StatusOK {
		t.Fatalf("me: esperado 200, veio %d (%s)", meRec.Code, meRec.Body)
	}

	// Sem token e com token lixo.
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	noTokenRec := httptest.NewRecorder()
	router.ServeHTTP(noTokenRec, req)
	if noTokenRec.Code != http.StatusUnauthorized {
		t.Fatalf("me sem token: esperado 401, veio %d", noTokenRec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer lixo")
	badRec := httptest.NewRecorder()
	router.ServeHTTP(badRec, req)
	if badRec.Code != http.StatusForbidden {
		t.Fatalf("me com token lixo: esperado 403, veio %d", badRec.Code)
	}

	// Renovação emite token de acesso novo e utilizável.
	refreshRec := postJSON(t, router, "/api/identity/refresh", map[string]string{
		"refresh_token": loginBody.Data.RefreshToken,
	}, "")
	if refreshRec.Code != http.StatusOK {
		t.Fatalf("refresh: esperado 200, veio %d (%s)", refreshRec.Code, refreshRec.Body)
	}
}

func TestRegisterConflictAndValidationStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	register := map[string]string{
		"username": "alice",
		"password": "password1",
		"wilaya":   "Algiers",
		"commune":  "Algiers",
		"name":     "OrgA",
	}
	if rec := postJSON(t, router, "/api/identity/register", register, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: esperado 201, veio %d", rec.Code)
	}
	if rec := postJSON(t, router, "/api/identity/register", register, ""); rec.Code != http.StatusConflict {
		t.Fatalf("register duplicado: esperado 409, veio %d", rec.Code)
	}

	register["username"] = "bob"
	register["password"] = "curta"
	if rec := postJSON(t, router, "/api/identity/register", register, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("register inválido: esperado 400, veio %d", rec.Code)
	}
}

func TestLoginWrongCredentialsStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	register := map[string]string{
		"username": "alice",
		"password": "password1",
		"wilaya":   "Algiers",
		"commune":  "Algiers",
		"name":     "OrgA",
	}
	if rec := postJSON(t, router, "/api/identity/register", register, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: esperado 201, veio %d", rec.Code)
	}

	wrong := postJSON(t, router, "/api/identity/login", map[string]string{
		"username": "alice", "password": "senha-errada",
	}, "")
	unknown := postJSON(t, router, "/api/identity/login", map[string]string{
		"username": "ninguem", "password": "password1",
	}, "")

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("esperado 401/401, veio %d/%d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("respostas distinguem usuário existente: %s vs %s", wrong.Body, unknown.Body)
	}
}
