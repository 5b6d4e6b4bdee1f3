package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/desempenho/internal/auth"
	httpmiddleware "github.com/urbanbyte/desempenho/internal/http/middleware"
)

// Handler orquestra as rotas de identidade.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes adiciona as rotas abertas de autenticação.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/identity", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/logout", h.handleLogout)
	})
}

// RegisterProtectedRoutes adiciona rotas que exigem token de acesso.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Patch("/identity/update", h.handleUpdate)
	r.Get("/me", h.handleMe)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Wilaya   string `json:"wilaya"`
		Commune  string `json:"commune"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	org, err := h.service.Register(r.Context(), RegisterInput{
		Username: payload.Username,
		Password: payload.Password,
		Wilaya:   payload.Wilaya,
		Commune:  payload.Commune,
		Name:     payload.Name,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"organization": org})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	result, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"organization":  result.Organization,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório")
		return
	}

	access, err := h.service.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"access_token": access})
}

// handleLogout apenas confirma: não há lista de revogação em uso.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "logout efetuado"})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	if orgID == 0 {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	var payload struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
		Wilaya   *string `json:"wilaya"`
		Commune  *string `json:"commune"`
		Name     *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	org, err := h.service.Update(r.Context(), orgID, UpdateInput{
		Username: payload.Username,
		Password: payload.Password,
		Wilaya:   payload.Wilaya,
		Commune:  payload.Commune,
		Name:     payload.Name,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organization": org})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	if orgID == 0 {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	org, err := h.service.Get(r.Context(), orgID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organization": org})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusConflict, "CONFLICT", "username já cadastrado")
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "AUTH", "credenciais inválidas")
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "AUTH", "refresh token inválido")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusUnauthorized, "AUTH", "organização não encontrada")
	default:
		log.Error().Err(err).Msg("identity: erro interno")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{"code": code, "message": message},
	})
}
