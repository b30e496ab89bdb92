package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Running again must be a no-op (sync.Once) and keep working.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	for _, table := range []string{
		"users", "exercises", "workout_plans", "workout_exercises",
		"schedule_sessions", "student_progress", "notifications", "completed_exercises",
	} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migration: %v", table, err)
		}
	}
}

func TestMigrate_RebuildsStaleUsersTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Simulate a database created before the admin role and the
	// verification/reset columns existed.
	legacy, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	legacyDDL := `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('trainer','student')),
		created_at TEXT NOT NULL
	)`
	if _, err := legacy.ExecContext(ctx, legacyDDL); err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := legacy.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at)
		 VALUES ('u1', 'Carlos', 'carlos@fitpro.com', 'hash', 'trainer', '2024-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	if err := legacy.Close(); err != nil {
		t.Fatalf("close legacy db: %v", err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	// The trainer created before the rebuild must survive.
	userRepo := NewUserRepository(db)
	kept, err := userRepo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("legacy user lost in rebuild: %v", err)
	}
	if kept.Email != "carlos@fitpro.com" || kept.Role != domain.RoleTrainer {
		t.Errorf("legacy user mangled: %+v", kept)
	}

	// The widened CHECK constraint must now accept the admin role.
	admin := &domain.User{
		Name:         "Root",
		Email:        "admin@fitpro.com",
		PasswordHash: "hash",
		Role:         domain.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		t.Fatalf("creating admin after rebuild failed: %v", err)
	}
}

func TestMapError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)

	dup := &domain.User{Name: "Other", Email: "ana@example.com", PasswordHash: "h", Role: domain.RoleStudent}
	err := NewUserRepository(db).Create(ctx, dup)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for duplicate email, got %v", err)
	}

	_, err = NewUserRepository(db).GetByID(ctx, "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
