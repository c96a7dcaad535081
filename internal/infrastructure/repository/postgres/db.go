package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// schemaLockKey serializes bootstrap DDL across api and worker startups.
const schemaLockKey int64 = 2026101701

const schemaDDL = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	business_number TEXT NOT NULL,
	representative_name TEXT NOT NULL,
	founded_date DATE NOT NULL,
	address TEXT NOT NULL,
	company_type TEXT NOT NULL,
	company_scale TEXT NOT NULL,
	recent_revenue DOUBLE PRECISION,
	debt_ratio DOUBLE PRECISION,
	researcher_count INTEGER,
	patent_count INTEGER,
	technologies TEXT NOT NULL DEFAULT '',
	certifications TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_updated_at ON companies(updated_at DESC);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	project_name TEXT NOT NULL,
	managing_agency TEXT NOT NULL,
	perform_period TEXT NOT NULL,
	role TEXT NOT NULL,
	result TEXT NOT NULL,
	budget DOUBLE PRECISION,
	summary TEXT NOT NULL DEFAULT '',
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_company ON projects(company_id, created_at);

CREATE TABLE IF NOT EXISTS notices (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT '',
	storage_path TEXT NOT NULL DEFAULT '',
	page_count INTEGER NOT NULL DEFAULT 0,
	issued_at TEXT,
	sections JSONB,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notices_status ON notices(status);

CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	notice_id TEXT,
	notice_title TEXT NOT NULL,
	mode TEXT NOT NULL,
	engine TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	traffic_light TEXT NOT NULL,
	relevance_score INTEGER NOT NULL DEFAULT 0,
	result JSONB NOT NULL,
	raw_trace TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_company_created ON assessments(company_id, created_at DESC);
`

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates every table the service needs. It is safe to run
// concurrently from several processes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(entity, id string) error {
	return domain.WrapError(domain.ErrNotFound, "find "+entity, fmt.Errorf("%s not found: id=%s", entity, id))
}
