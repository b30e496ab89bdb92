package service_test

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/service"
)

func TestProgressService_StudentOwnEntries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	student := e.seedStudent(t, "Ana", "ana@example.com", &trainer.ID)

	entry, err := e.progressSvc.Create(ctx, student.ID, domain.RoleStudent, service.CreateProgressInput{
		Date:   "2026-08-30",
		Weight: 62.5,
		Notes:  strPtr("Pós treino"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if entry.StudentID != student.ID {
		t.Errorf("entry attributed to %s, want %s", entry.StudentID, student.ID)
	}

	// Students cannot write entries for someone else.
	other := e.seedStudent(t, "Bruno", "bruno@example.com", &trainer.ID)
	hijack, err := e.progressSvc.Create(ctx, student.ID, domain.RoleStudent, service.CreateProgressInput{
		StudentID: other.ID,
		Date:      "2026-08-30",
		Weight:    80,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if hijack.StudentID != student.ID {
		t.Errorf("student-provided studentId must be ignored, got %s", hijack.StudentID)
	}

	list, err := e.progressSvc.List(ctx, student.ID, domain.RoleStudent, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 entries, got %d", len(list))
	}
}

func TestProgressService_WeightRequired(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	student := e.seedStudent(t, "Ana", "ana@example.com", &trainer.ID)

	_, err := e.progressSvc.Create(ctx, student.ID, domain.RoleStudent, service.CreateProgressInput{Date: "2026-08-30"})
	if !errors.Is(err, service.ErrWeightRequired) {
		t.Fatalf("expected ErrWeightRequired, got %v", err)
	}
}

func TestProgressService_TrainerScoping(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	carlos := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	rival := e.seedTrainer(t, "Paula", "paula@fitpro.com")
	ana := e.seedStudent(t, "Ana", "ana@example.com", &carlos.ID)
	bruno := e.seedStudent(t, "Bruno", "bruno@example.com", &rival.ID)

	// Trainers must name the student.
	if _, err := e.progressSvc.List(ctx, carlos.ID, domain.RoleTrainer, ""); !errors.Is(err, service.ErrStudentIDRequired) {
		t.Errorf("trainer without studentId: %v", err)
	}

	entry, err := e.progressSvc.Create(ctx, carlos.ID, domain.RoleTrainer, service.CreateProgressInput{
		StudentID: ana.ID,
		Date:      "2026-08-30",
		Weight:    62.5,
	})
	if err != nil {
		t.Fatalf("trainer create for own student failed: %v", err)
	}
	if entry.StudentID != ana.ID {
		t.Errorf("entry for %s, want %s", entry.StudentID, ana.ID)
	}

	if _, err := e.progressSvc.Create(ctx, carlos.ID, domain.RoleTrainer, service.CreateProgressInput{
		StudentID: bruno.ID,
		Date:      "2026-08-30",
		Weight:    80,
	}); !errors.Is(err, service.ErrStudentNotManaged) {
		t.Errorf("trainer writing for another trainer's student: %v", err)
	}

	if _, err := e.progressSvc.List(ctx, carlos.ID, domain.RoleTrainer, bruno.ID); !errors.Is(err, service.ErrStudentNotManaged) {
		t.Errorf("trainer listing another trainer's student: %v", err)
	}
}

func TestProgressService_UpdateDeleteOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	carlos := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	rival := e.seedTrainer(t, "Paula", "paula@fitpro.com")
	ana := e.seedStudent(t, "Ana", "ana@example.com", &carlos.ID)
	bruno := e.seedStudent(t, "Bruno", "bruno@example.com", &rival.ID)
	admin := &domain.User{Name: "Root", Email: "admin@fitpro.com", PasswordHash: "h", Role: domain.RoleAdmin, EmailVerified: true}
	if err := e.users.Create(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	entry, err := e.progressSvc.Create(ctx, ana.ID, domain.RoleStudent, service.CreateProgressInput{
		Date: "2026-08-30", Weight: 62.5,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Another student cannot touch the entry.
	if _, err := e.progressSvc.Update(ctx, bruno.ID, domain.RoleStudent, entry.ID, service.UpdateProgressInput{
		Weight: floatPtr(70),
	}); !errors.Is(err, service.ErrProgressAccessDenied) {
		t.Errorf("foreign student update: %v", err)
	}
	if err := e.progressSvc.Delete(ctx, bruno.ID, domain.RoleStudent, entry.ID); !errors.Is(err, service.ErrProgressAccessDenied) {
		t.Errorf("foreign student delete: %v", err)
	}

	// Neither can an unlinked trainer.
	if err := e.progressSvc.Delete(ctx, rival.ID, domain.RoleTrainer, entry.ID); !errors.Is(err, service.ErrProgressAccessDenied) {
		t.Errorf("unlinked trainer delete: %v", err)
	}

	// The linked trainer may update.
	updated, err := e.progressSvc.Update(ctx, carlos.ID, domain.RoleTrainer, entry.ID, service.UpdateProgressInput{
		BodyFat: floatPtr(21.5),
	})
	if err != nil {
		t.Fatalf("linked trainer update failed: %v", err)
	}
	if updated.BodyFat == nil || *updated.BodyFat != 21.5 {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.Weight != 62.5 {
		t.Errorf("untouched field clobbered: %+v", updated)
	}

	// Admins may delete anything.
	if err := e.progressSvc.Delete(ctx, admin.ID, domain.RoleAdmin, entry.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := e.progressSvc.Delete(ctx, admin.ID, domain.RoleAdmin, entry.ID); !errors.Is(err, service.ErrProgressNotFound) {
		t.Errorf("re-deleting: %v", err)
	}
}

func floatPtr(f float64) *float64 { return &f }
