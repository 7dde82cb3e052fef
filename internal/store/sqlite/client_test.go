package sqlite

import (
	"context"
	"testing"
)

func testStore(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	client, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("opening sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(ctx) })

	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return client
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	client := testStore(t)
	if err := client.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema (second run): %v", err)
	}
}

func TestParseDSN(t *testing.T) {
	cases := []struct {
		name     string
		dsn      string
		expected string
		wantErr  bool
	}{
		{name: "memory", dsn: "sqlite://:memory:", expected: ":memory:"},
		{name: "absolute path", dsn: "sqlite:///var/lib/talecraft.db", expected: "/var/lib/talecraft.db"},
		{name: "relative path", dsn: "sqlite://talecraft.db", expected: "./talecraft.db"},
		{name: "dotted relative path", dsn: "sqlite://./data/talecraft.db", expected: "./data/talecraft.db"},
		{name: "path with params", dsn: "sqlite://talecraft.db?cache=shared", expected: "./talecraft.db?cache=shared"},
		{name: "escaped path", dsn: "sqlite://my%20project.db", expected: "./my project.db"},
		{name: "wrong scheme", dsn: "postgres://localhost:5432/talecraft", wantErr: true},
		{name: "no scheme", dsn: "talecraft.db", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDSN(tc.dsn)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse DSN: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	ddl := `
	CREATE TABLE IF NOT EXISTS a (id INTEGER);
	CREATE TRIGGER IF NOT EXISTS a_ai AFTER INSERT ON a BEGIN
		INSERT INTO b VALUES (new.id);
		INSERT INTO c VALUES (new.id);
	END;
	CREATE INDEX IF NOT EXISTS idx_a ON a (id);
	`

	statements := splitStatements(ddl)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %#v", len(statements), statements)
	}
}
