package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubRepo struct {
	workers   map[int64]*Worker
	feedbacks []Feedback
	nextID    int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{workers: make(map[int64]*Worker), nextID: 1}
}

func (s *stubRepo) Create(ctx context.Context, orgID int64, fullname, department string) (*Worker, error) {
	now := time.Now()
	w := &Worker{
		ID:             s.nextID,
		OrganizationID: orgID,
		Fullname:       fullname,
		Department:     department,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.workers[w.ID] = w
	s.nextID++
	copied := *w
	return &copied, nil
}

func (s *stubRepo) ExistsByName(ctx context.Context, orgID int64, fullname, department string) (bool, error) {
	for _, w := range s.workers {
		if w.OrganizationID == orgID && w.Fullname == fullname && w.Department == department {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) List(ctx context.Context, orgID int64, limit, offset int) ([]Worker, error) {
	var all []Worker
	for _, w := range s.workers {
		if w.OrganizationID == orgID {
			all = append(all, *w)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *stubRepo) Count(ctx context.Context, orgID int64) (int64, error) {
	var total int64
	for _, w := range s.workers {
		if w.OrganizationID == orgID {
			total++
		}
	}
	return total, nil
}

func (s *stubRepo) GetByID(ctx context.Context, orgID, id int64) (*Worker, error) {
	w, ok := s.workers[id]
	if !ok || w.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (s *stubRepo) UpdateFullname(ctx context.Context, orgID, id int64, fullname string) error {
	w, ok := s.workers[id]
	if !ok || w.OrganizationID != orgID || !w.Active {
		return ErrNotFound
	}
	w.Fullname = fullname
	return nil
}

func (s *stubRepo) SetActive(ctx context.Context, orgID, id int64, active bool) error {
	w, ok := s.workers[id]
	if !ok || w.OrganizationID != orgID {
		return ErrNotFound
	}
	w.Active = active
	return nil
}

func (s *stubRepo) ListFeedback(ctx context.Context, workerID int64, limit int) ([]Feedback, error) {
	var out []Feedback
	for _, f := range s.feedbacks {
		if f.WorkerID == workerID && len(out) < limit {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubRepo) AddFeedback(ctx context.Context, workerID, createdBy int64, isLiked bool, comment *string) (*Feedback, error) {
	f := Feedback{
		ID:        int64(len(s.feedbacks) + 1),
		WorkerID:  workerID,
		IsLiked:   isLiked,
		Comment:   comment,
		CreatedBy: &createdBy,
		CreatedAt: time.Now(),
	}
	s.feedbacks = append(s.feedbacks, f)
	if w, ok := s.workers[workerID]; ok {
		if isLiked {
			w.TotalLikes++
		} else {
			w.TotalDislikes++
		}
	}
	return &f, nil
}

const orgID = int64(1)

func TestCreateRejectsDuplicate(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, orgID, "Amine B", "RH"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, orgID, "Amine B", "RH"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("esperado ErrDuplicate, veio %v", err)
	}
	// Mesmo nome em outro departamento é permitido.
	if _, err := svc.Create(ctx, orgID, "Amine B", "TI"); err != nil {
		t.Fatalf("Create em outro departamento: %v", err)
	}
}

func TestCreateValidatesFields(t *testing.T) {
	svc := NewService(newStubRepo())

	if _, err := svc.Create(context.Background(), orgID, "  ", "RH"); !errors.Is(err, ErrValidation) {
		t.Fatalf("esperado ErrValidation, veio %v", err)
	}
	if _, err := svc.Create(context.Background(), orgID, "Amine B", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("esperado ErrValidation, veio %v", err)
	}
}

func TestListPaginationMeta(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := svc.Create(ctx, orgID, "Worker "+string(rune('A'+i)), "RH"); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	result, err := svc.List(ctx, orgID, 2, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	meta := result.Meta
	if meta.Total != 25 || meta.Page != 2 || meta.Limit != 10 || meta.TotalPages != 3 {
		t.Fatalf("meta inesperada: %+v", meta)
	}
	if len(result.Workers) != 10 {
		t.Fatalf("página com %d workers", len(result.Workers))
	}

	// Valores fora de faixa normalizados para defaults.
	result, err = svc.List(ctx, orgID, 0, -5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Meta.Page != 1 || result.Meta.Limit != defaultPageSize {
		t.Fatalf("defaults não aplicados: %+v", result.Meta)
	}
}

func TestToggleStatus(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	w, err := svc.Create(ctx, orgID, "Amine B", "RH")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := svc.ToggleStatus(ctx, orgID, w.ID)
	if err != nil || active {
		t.Fatalf("primeiro toggle: active=%v err=%v", active, err)
	}
	active, err = svc.ToggleStatus(ctx, orgID, w.ID)
	if err != nil || !active {
		t.Fatalf("segundo toggle: active=%v err=%v", active, err)
	}
}

func TestFeedbackRules(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	w, err := svc.Create(ctx, orgID, "Amine B", "RH")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AddFeedback(ctx, orgID, w.ID, "meh", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("status inválido: esperado ErrValidation, veio %v", err)
	}

	if _, err := svc.AddFeedback(ctx, orgID, w.ID, "like", nil); err != nil {
		t.Fatalf("AddFeedback like: %v", err)
	}
	if _, err := svc.AddFeedback(ctx, orgID, w.ID, "dislike", nil); err != nil {
		t.Fatalf("AddFeedback dislike: %v", err)
	}

	stored := repo.workers[w.ID]
	if stored.TotalLikes != 1 || stored.TotalDislikes != 1 {
		t.Fatalf("contadores inesperados: %+v", stored)
	}

	if err := svc.Delete(ctx, orgID, w.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.AddFeedback(ctx, orgID, w.ID, "like", nil); !errors.Is(err, ErrInactive) {
		t.Fatalf("esperado ErrInactive, veio %v", err)
	}

	if _, err := svc.AddFeedback(ctx, orgID, 999, "like", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperado ErrNotFound, veio %v", err)
	}
}

func TestWorkerScopedToOrganization(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	w, err := svc.Create(ctx, orgID, "Amine B", "RH")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	outraOrg := int64(2)
	if _, err := svc.Get(ctx, outraOrg, w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("worker visível fora da organização: %v", err)
	}
	if err := svc.Rename(ctx, outraOrg, w.ID, "Outro Nome"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rename fora da organização: %v", err)
	}
}
