package worker

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/urbanbyte/desempenho/internal/db"
)

// PgRepository provê acesso ao armazenamento de workers e feedbacks.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository cria um novo repositório de workers.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const workerColumns = "id, organization_id, fullname, department, total_likes, total_dislikes, active, created_at, updated_at"

// Create insere um worker ativo na organização.
func (r *PgRepository) Create(ctx context.Context, orgID int64, fullname, department string) (*Worker, error) {
	const query = `
        INSERT INTO worker (organization_id, fullname, department)
        VALUES ($1, $2, $3)
        RETURNING ` + workerColumns

	return scanWorker(r.pool.QueryRow(ctx, query, orgID, fullname, department))
}

// ExistsByName verifica fullname duplicado dentro do departamento.
func (r *PgRepository) ExistsByName(ctx context.Context, orgID int64, fullname, department string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM worker
            WHERE organization_id = $1 AND fullname = $2 AND department = $3
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, orgID, fullname, department).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List devolve uma página de workers, mais recentes primeiro.
func (r *PgRepository) List(ctx context.Context, orgID int64, limit, offset int) ([]Worker, error) {
	const query = `
        SELECT ` + workerColumns + `
        FROM worker
        WHERE organization_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// Count conta os workers da organização.
func (r *PgRepository) Count(ctx context.Context, orgID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM worker WHERE organization_id = $1`, orgID).Scan(&total)
	return total, err
}

// GetByID busca worker da organização pelo identificador.
func (r *PgRepository) GetByID(ctx context.Context, orgID, id int64) (*Worker, error) {
	const query = `SELECT ` + workerColumns + ` FROM worker WHERE id = $1 AND organization_id = $2`
	return scanWorker(r.pool.QueryRow(ctx, query, id, orgID))
}

// UpdateFullname renomeia um worker ativo.
func (r *PgRepository) UpdateFullname(ctx context.Context, orgID, id int64, fullname string) error {
	const query = `
        UPDATE worker
        SET fullname = $3, updated_at = now()
        WHERE id = $1 AND organization_id = $2 AND active = TRUE`

	tag, err := r.pool.Exec(ctx, query, id, orgID, fullname)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive liga ou desliga um worker (soft delete usa FALSE).
func (r *PgRepository) SetActive(ctx context.Context, orgID, id int64, active bool) error {
	const query = `
        UPDATE worker
        SET active = $3, updated_at = now()
        WHERE id = $1 AND organization_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, orgID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFeedback devolve os feedbacks mais recentes de um worker.
func (r *PgRepository) ListFeedback(ctx context.Context, workerID int64, limit int) ([]Feedback, error) {
	const query = `
        SELECT id, worker_id, is_liked, comment, created_by, created_at
        FROM like_history
        WHERE worker_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, workerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.WorkerID, &f.IsLiked, &f.Comment, &f.CreatedBy, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, rows.Err()
}

// AddFeedback grava o evento e incrementa o contador do worker na mesma
// transação, garantindo que cada evento conte exatamente uma vez.
func (r *PgRepository) AddFeedback(ctx context.Context, workerID, createdBy int64, isLiked bool, comment *string) (*Feedback, error) {
	var feedback Feedback

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		const insert = `
            INSERT INTO like_history (worker_id, is_liked, comment, created_by)
            VALUES ($1, $2, $3, $4)
            RETURNING id, worker_id, is_liked, comment, created_by, created_at`

		row := tx.QueryRow(ctx, insert, workerID, isLiked, comment, createdBy)
		if err := row.Scan(&feedback.ID, &feedback.WorkerID, &feedback.IsLiked,
			&feedback.Comment, &feedback.CreatedBy, &feedback.CreatedAt); err != nil {
			return err
		}

		counter := `
            UPDATE worker
            SET total_likes = total_likes + 1, updated_at = now()
            WHERE id = $1`
		if !isLiked {
			counter = `
            UPDATE worker
            SET total_dislikes = total_dislikes + 1, updated_at = now()
            WHERE id = $1`
		}
		_, err := tx.Exec(ctx, counter, workerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(&w.ID, &w.OrganizationID, &w.Fullname, &w.Department,
		&w.TotalLikes, &w.TotalDislikes, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}
