package db

import (
	"context"
	"strings"
	"testing"
)

func TestMigrateNilDatabaseIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("RunMigrations(nil) = %v", err)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	raw, err := migrationFiles.ReadFile("migrations/00001_document_state.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(raw), "CREATE TABLE IF NOT EXISTS document_state") {
		t.Fatalf("unexpected migration content")
	}
}
