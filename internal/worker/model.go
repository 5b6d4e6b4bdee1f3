package worker

import (
	"errors"
	"time"
)

var (
	// ErrValidation marca entrada malformada corrigível pelo cliente.
	ErrValidation = errors.New("entrada inválida")
	// ErrNotFound indica worker inexistente ou fora da organização.
	ErrNotFound = errors.New("worker não encontrado")
	// ErrDuplicate indica fullname já cadastrado no mesmo departamento.
	ErrDuplicate = errors.New("worker já cadastrado neste departamento")
	// ErrInactive bloqueia feedback para workers desativados.
	ErrInactive = errors.New("worker desativado")
)

// Worker representa um funcionário avaliado, sempre vinculado a uma organização.
type Worker struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Fullname       string    `json:"fullname"`
	Department     string    `json:"department"`
	TotalLikes     int       `json:"total_likes"`
	TotalDislikes  int       `json:"total_dislikes"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Feedback registra um evento de like/dislike sobre um worker.
type Feedback struct {
	ID        int64     `json:"id"`
	WorkerID  int64     `json:"worker_id"`
	IsLiked   bool      `json:"is_liked"`
	Comment   *string   `json:"comment"`
	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// PageMeta descreve a paginação devolvida nas listagens.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// ListResult agrega workers e metadados de página.
type ListResult struct {
	Workers []Worker `json:"workers"`
	Meta    PageMeta `json:"pagination"`
}

// Detail agrega o worker e seus feedbacks recentes.
type Detail struct {
	Worker         *Worker    `json:"worker"`
	RecentFeedback []Feedback `json:"recent_feedback"`
}
