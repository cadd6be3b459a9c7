//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"incant/internal/platform/store/pg"
	"incant/internal/services/history/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
    id          UUID PRIMARY KEY,
    input       TEXT NOT NULL,
    normalized  TEXT NOT NULL,
    domain      TEXT NOT NULL,
    intent      TEXT NOT NULL,
    confidence  DOUBLE PRECISION NOT NULL,
    command     TEXT NOT NULL,
    template_id TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestRecordAndRecent_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	db, err := pg.Open(ctx, pg.Config{URL: dsn, MaxConns: 2}, pg.Tracer(zerolog.Nop()), nil)
	if err != nil {
		t.Fatalf("pg.Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	r := NewPG(db)
	now := time.Now().UTC().Truncate(time.Microsecond)
	rows := []domain.Translation{
		{ID: uuid.NewString(), Input: "find *.log files", Normalized: "find *.log files",
			Domain: "shell", Intent: "find", Confidence: 0.95,
			Command: `find . -name "*.log"`, TemplateID: "shell.find",
			Status: "success", CreatedAt: now.Add(-time.Minute)},
		{ID: uuid.NewString(), Input: "stop nginx container", Normalized: "stop nginx container",
			Domain: "docker", Intent: "service_stop", Confidence: 0.88,
			Command: "docker stop nginx", TemplateID: "docker.service_stop",
			Status: "success", CreatedAt: now},
	}
	for _, x := range rows {
		if err := r.Record(ctx, x); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := r.Recent(ctx, domain.RecentQuery{Limit: 10})
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d", len(got))
	}
	if got[0].Intent != "service_stop" {
		t.Fatalf("order wrong: %v", got[0])
	}

	got, err = r.Recent(ctx, domain.RecentQuery{Limit: 10, Domain: "shell"})
	if err != nil {
		t.Fatalf("Recent(shell): %v", err)
	}
	if len(got) != 1 || got[0].Domain != "shell" {
		t.Fatalf("filtered rows = %v", got)
	}

	// duplicate primary key surfaces as a duplicate-key error, not a panic
	if err := r.Record(ctx, rows[0]); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
