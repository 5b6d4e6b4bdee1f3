package stats

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/urbanbyte/desempenho/internal/http/middleware"
)

// Handler expõe o resumo de estatísticas.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes adiciona a rota de estatísticas (exige token).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.handleSummary)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())

	summary, err := h.service.Summary(r.Context(), orgID)
	if err != nil {
		log.Error().Err(err).Int64("org_id", orgID).Msg("stats: erro interno")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		return
	}

	writeJSON(w, http.StatusOK, summary)
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
