package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PgRepository provê acesso ao armazenamento de organizações.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository cria um novo repositório de organizações.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const orgColumns = "id, username, password, wilaya, commune, name, created_at, updated_at"

// Create insere uma nova organização e devolve os dados persistidos.
func (r *PgRepository) Create(ctx context.Context, input RegisterInput) (*Organization, error) {
	const query = `
        INSERT INTO organization (username, password, wilaya, commune, name)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + orgColumns

	row := r.pool.QueryRow(ctx, query,
		input.Username, input.Password, input.Wilaya, input.Commune, input.Name)

	org, err := scanOrganization(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return org, nil
}

// GetByUsername busca organização pelo username único.
func (r *PgRepository) GetByUsername(ctx context.Context, username string) (*Organization, error) {
	const query = `SELECT ` + orgColumns + ` FROM organization WHERE username = $1`
	return scanOrganization(r.pool.QueryRow(ctx, query, username))
}

// GetByID busca organização pelo identificador numérico.
func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Organization, error) {
	const query = `SELECT ` + orgColumns + ` FROM organization WHERE id = $1`
	return scanOrganization(r.pool.QueryRow(ctx, query, id))
}

// Update aplica atualização parcial e devolve o registro atualizado.
// Campos nil permanecem intocados.
func (r *PgRepository) Update(ctx context.Context, id int64, input UpdateInput) (*Organization, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	appendSet("username", input.Username)
	appendSet("password", input.Password)
	appendSet("wilaya", input.Wilaya)
	appendSet("commune", input.Commune)
	appendSet("name", input.Name)

	query := `UPDATE organization SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + orgColumns

	org, err := scanOrganization(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return org, nil
}

func scanOrganization(row pgx.Row) (*Organization, error) {
	var org Organization
	err := row.Scan(&org.ID, &org.Username, &org.Password, &org.Wilaya,
		&org.Commune, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
