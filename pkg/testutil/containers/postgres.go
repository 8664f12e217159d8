//go:build integration

// Package containers starts throwaway backing services for integration
// tests. Ryuk reaps the containers after the test process exits.
package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id                 UUID PRIMARY KEY,
	name               TEXT NOT NULL,
	team_type          TEXT NOT NULL,
	member_count       INT NOT NULL,
	track              TEXT NOT NULL,
	application_status TEXT NOT NULL,
	payment_status     TEXT NOT NULL,
	has_proposal       BOOLEAN NOT NULL DEFAULT FALSE,
	proposal_ref       TEXT NOT NULL DEFAULT '',
	payment_proof_ref  TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ratings (
	judge_id     UUID NOT NULL,
	team_id      UUID NOT NULL,
	innovation   INT NOT NULL,
	technicality INT NOT NULL,
	presentation INT NOT NULL,
	feasibility  INT NOT NULL,
	impact       INT NOT NULL,
	comment      TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (judge_id, team_id)
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the
// schema already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	URL       string
}

// NewPostgresContainer starts Postgres and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("hackhub"),
		tcpostgres.WithUsername("hackhub"),
		tcpostgres.WithPassword("hackhub"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DB: db, URL: url}
}

// Truncate clears all tables between tests.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `TRUNCATE teams, ratings`)
	return err
}
