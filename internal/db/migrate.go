package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// statements contém o schema mínimo aplicado na subida do processo.
// A coluna password guarda sempre o registro cifrado <iv_hex>:<cifra_hex>.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS organization (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password TEXT NOT NULL,
		wilaya VARCHAR(50) NOT NULL,
		commune VARCHAR(50) NOT NULL,
		name VARCHAR(50) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS worker (
		id BIGSERIAL PRIMARY KEY,
		organization_id BIGINT NOT NULL REFERENCES organization(id) ON DELETE CASCADE,
		fullname VARCHAR(50) NOT NULL,
		department VARCHAR(50) NOT NULL,
		total_likes INT NOT NULL DEFAULT 0,
		total_dislikes INT NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS like_history (
		id BIGSERIAL PRIMARY KEY,
		worker_id BIGINT NOT NULL REFERENCES worker(id) ON DELETE CASCADE,
		is_liked BOOLEAN NOT NULL,
		comment TEXT,
		created_by BIGINT REFERENCES organization(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_worker_org ON worker (organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_like_worker ON like_history (worker_id)`,
	`CREATE INDEX IF NOT EXISTS idx_org_location ON organization (wilaya, commune)`,
}

// Migrate aplica o schema de forma idempotente.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
