package worker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/urbanbyte/desempenho/internal/http/middleware"
)

// Handler orquestra as rotas de workers.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes adiciona as rotas de workers (todas exigem token).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workers", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleRename)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/status", h.handleToggleStatus)
		r.Post("/{id}/feedback", h.handleFeedback)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())

	var payload struct {
		Fullname   string `json:"fullname"`
		Department string `json:"department"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	created, err := h.service.Create(r.Context(), orgID, payload.Fullname, payload.Department)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"worker": created})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.List(r.Context(), orgID, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	id, err := workerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	detail, err := h.service.Get(r.Context(), orgID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	id, err := workerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	var payload struct {
		Fullname string `json:"fullname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	if err := h.service.Rename(r.Context(), orgID, id, payload.Fullname); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "worker atualizado"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	id, err := workerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	if err := h.service.Delete(r.Context(), orgID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "worker desativado"})
}

func (h *Handler) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	id, err := workerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	active, err := h.service.ToggleStatus(r.Context(), orgID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"active": active})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	orgID := httpmiddleware.GetOrganizationID(r.Context())
	id, err := workerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	var payload struct {
		Status  string  `json:"status"`
		Comment *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	feedback, err := h.service.AddFeedback(r.Context(), orgID, id, payload.Status, payload.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"feedback": feedback})
}

func workerID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, ErrInactive):
		writeError(w, http.StatusBadRequest, "VALIDATION", "worker desativado")
	case errors.Is(err, ErrDuplicate):
		writeError(w, http.StatusConflict, "CONFLICT", "worker já cadastrado neste departamento")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "worker não encontrado")
	default:
		log.Error().Err(err).Msg("worker: erro interno")
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
