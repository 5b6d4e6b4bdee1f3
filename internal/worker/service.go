package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/urbanbyte/desempenho/internal/util"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 100
	recentFeedbackSize = 20
)

// Repository descreve o armazenamento exigido pelo serviço de workers.
type Repository interface {
	Create(ctx context.Context, orgID int64, fullname, department string) (*Worker, error)
	ExistsByName(ctx context.Context, orgID int64, fullname, department string) (bool, error)
	List(ctx context.Context, orgID int64, limit, offset int) ([]Worker, error)
	Count(ctx context.Context, orgID int64) (int64, error)
	GetByID(ctx context.Context, orgID, id int64) (*Worker, error)
	UpdateFullname(ctx context.Context, orgID, id int64, fullname string) error
	SetActive(ctx context.Context, orgID, id int64, active bool) error
	ListFeedback(ctx context.Context, workerID int64, limit int) ([]Feedback, error)
	AddFeedback(ctx context.Context, workerID, createdBy int64, isLiked bool, comment *string) (*Feedback, error)
}

// Service concentra as regras de workers e feedbacks.
type Service struct {
	repo Repository
}

// NewService cria novo serviço de workers.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registra um worker ativo, rejeitando duplicata no departamento.
func (s *Service) Create(ctx context.Context, orgID int64, fullname, department string) (*Worker, error) {
	fullname = strings.TrimSpace(fullname)
	department = strings.TrimSpace(department)

	if err := util.RequireString(fullname, "fullname"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.RequireString(department, "department"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	exists, err := s.repo.ExistsByName(ctx, orgID, fullname, department)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	return s.repo.Create(ctx, orgID, fullname, department)
}

// List devolve uma página de workers da organização.
func (s *Service) List(ctx context.Context, orgID int64, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total, err := s.repo.Count(ctx, orgID)
	if err != nil {
		return nil, err
	}

	workers, err := s.repo.List(ctx, orgID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if workers == nil {
		workers = []Worker{}
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return &ListResult{
		Workers: workers,
		Meta:    PageMeta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	}, nil
}

// Get devolve o worker e seus feedbacks recentes.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Detail, error) {
	w, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	feedbacks, err := s.repo.ListFeedback(ctx, id, recentFeedbackSize)
	if err != nil {
		return nil, err
	}
	if feedbacks == nil {
		feedbacks = []Feedback{}
	}

	return &Detail{Worker: w, RecentFeedback: feedbacks}, nil
}

// Rename atualiza o fullname de um worker ativo.
func (s *Service) Rename(ctx context.Context, orgID, id int64, fullname string) error {
	fullname = strings.TrimSpace(fullname)
	if err := util.RequireString(fullname, "fullname"); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.UpdateFullname(ctx, orgID, id, fullname)
}

// Delete desativa o worker; registros nunca são removidos fisicamente.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	return s.repo.SetActive(ctx, orgID, id, false)
}

// ToggleStatus inverte o estado ativo e devolve o novo valor.
func (s *Service) ToggleStatus(ctx context.Context, orgID, id int64) (bool, error) {
	w, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return false, err
	}

	next := !w.Active
	if err := s.repo.SetActive(ctx, orgID, id, next); err != nil {
		return false, err
	}
	return next, nil
}

// AddFeedback registra like/dislike sobre um worker ativo da organização.
func (s *Service) AddFeedback(ctx context.Context, orgID, workerID int64, status string, comment *string) (*Feedback, error) {
	if status != "like" && status != "dislike" {
		return nil, fmt.Errorf("%w: status deve ser like ou dislike", ErrValidation)
	}

	w, err := s.repo.GetByID(ctx, orgID, workerID)
	if err != nil {
		return nil, err
	}
	if !w.Active {
		return nil, ErrInactive
	}

	return s.repo.AddFeedback(ctx, workerID, orgID, status == "like", comment)
}
