package stats

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository executa as agregações de estatísticas no Postgres.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository cria um novo repositório de estatísticas.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// CountWorkers devolve total e ativos da organização.
func (r *PgRepository) CountWorkers(ctx context.Context, orgID int64) (total, active int64, err error) {
	const query = `
        SELECT count(*), count(*) FILTER (WHERE active)
        FROM worker
        WHERE organization_id = $1`

	err = r.pool.QueryRow(ctx, query, orgID).Scan(&total, &active)
	return total, active, err
}

// FeedbackTotals soma likes e dislikes registrados para a organização.
func (r *PgRepository) FeedbackTotals(ctx context.Context, orgID int64) (likes, dislikes int64, err error) {
	const query = `
        SELECT count(*) FILTER (WHERE lh.is_liked), count(*) FILTER (WHERE NOT lh.is_liked)
        FROM like_history lh
        JOIN worker w ON w.id = lh.worker_id
        WHERE w.organization_id = $1`

	err = r.pool.QueryRow(ctx, query, orgID).Scan(&likes, &dislikes)
	return likes, dislikes, err
}

// TopWorker devolve o worker com mais likes (ou dislikes) da organização.
// Devolve nil quando não há workers.
func (r *PgRepository) TopWorker(ctx context.Context, orgID int64, byDislikes bool) (*WorkerRef, error) {
	query := `
        SELECT id, fullname, department, total_likes, total_dislikes
        FROM worker
        WHERE organization_id = $1
        ORDER BY total_likes DESC, id
        LIMIT 1`
	if byDislikes {
		query = `
        SELECT id, fullname, department, total_likes, total_dislikes
        FROM worker
        WHERE organization_id = $1
        ORDER BY total_dislikes DESC, id
        LIMIT 1`
	}

	var ref WorkerRef
	err := r.pool.QueryRow(ctx, query, orgID).
		Scan(&ref.ID, &ref.Fullname, &ref.Department, &ref.TotalLikes, &ref.TotalDislikes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

// MonthCounts conta feedbacks e workers criados desde o instante dado.
func (r *PgRepository) MonthCounts(ctx context.Context, orgID int64, since time.Time) (feedback, newWorkers int64, err error) {
	const feedbackQuery = `
        SELECT count(*)
        FROM like_history lh
        JOIN worker w ON w.id = lh.worker_id
        WHERE w.organization_id = $1 AND lh.created_at >= $2`
	if err = r.pool.QueryRow(ctx, feedbackQuery, orgID, since).Scan(&feedback); err != nil {
		return 0, 0, err
	}

	const workersQuery = `
        SELECT count(*)
        FROM worker
        WHERE organization_id = $1 AND created_at >= $2`
	err = r.pool.QueryRow(ctx, workersQuery, orgID, since).Scan(&newWorkers)
	return feedback, newWorkers, err
}

// ByDepartment agrega contagem de workers por departamento.
func (r *PgRepository) ByDepartment(ctx context.Context, orgID int64) ([]DepartmentCount, error) {
	const query = `
        SELECT department, count(*)
        FROM worker
        WHERE organization_id = $1
        GROUP BY department
        ORDER BY count(*) DESC, department`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []DepartmentCount
	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}
