package sqlite

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

func TestScheduleRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	ana := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	bruno := createTestUser(t, db, "Bruno", "bruno@example.com", domain.RoleStudent)

	monday := createTestSession(t, db, trainer.ID, ana.ID, "2026-08-31")
	tuesday := createTestSession(t, db, trainer.ID, bruno.ID, "2026-09-01")
	tuesday.Status = domain.StatusCancelled
	if err := repo.Update(ctx, tuesday); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	all, err := repo.ListByTrainer(ctx, trainer.ID, repository.SessionFilter{})
	if err != nil {
		t.Fatalf("ListByTrainer failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
	// Ordered by date then time.
	if all[0].ID != monday.ID {
		t.Errorf("sessions not ordered by date: %+v", all)
	}

	byDate, err := repo.ListByTrainer(ctx, trainer.ID, repository.SessionFilter{Date: "2026-08-31"})
	if err != nil {
		t.Fatalf("ListByTrainer with date failed: %v", err)
	}
	if len(byDate) != 1 || byDate[0].ID != monday.ID {
		t.Errorf("date filter: %+v", byDate)
	}

	cancelled, err := repo.ListByTrainer(ctx, trainer.ID, repository.SessionFilter{Status: domain.StatusCancelled})
	if err != nil {
		t.Fatalf("ListByTrainer with status failed: %v", err)
	}
	if len(cancelled) != 1 || cancelled[0].ID != tuesday.ID {
		t.Errorf("status filter: %+v", cancelled)
	}

	anaSessions, err := repo.ListByStudent(ctx, ana.ID, repository.SessionFilter{})
	if err != nil {
		t.Fatalf("ListByStudent failed: %v", err)
	}
	if len(anaSessions) != 1 || anaSessions[0].ID != monday.ID {
		t.Errorf("student scoping: %+v", anaSessions)
	}
}

func TestScheduleRepository_ListOnDateJoinsNames(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	createTestSession(t, db, trainer.ID, student.ID, "2026-08-30")

	sessions, err := repo.ListOnDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("ListOnDate failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.TrainerName == nil || *s.TrainerName != "Carlos" {
		t.Errorf("trainer name not joined: %v", s.TrainerName)
	}
	if s.StudentName == nil || *s.StudentName != "Ana" {
		t.Errorf("student name not joined: %v", s.StudentName)
	}
}

// Progress rows recorded during a session must survive the session's deletion
// with the link cleared.
func TestScheduleRepository_DeleteDetachesProgress(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	session := createTestSession(t, db, trainer.ID, student.ID, "2026-08-30")

	progressRepo := NewProgressRepository(db)
	entry := &domain.StudentProgress{
		StudentID: student.ID,
		SessionID: &session.ID,
		Date:      "2026-08-30",
		Weight:    62.5,
	}
	if err := progressRepo.Create(ctx, entry); err != nil {
		t.Fatalf("create progress: %v", err)
	}

	if err := repo.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, session.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("session still present: %v", err)
	}

	kept, err := progressRepo.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("progress entry lost with session: %v", err)
	}
	if kept.SessionID != nil {
		t.Errorf("session link not cleared: %v", *kept.SessionID)
	}
	if kept.Weight != 62.5 {
		t.Errorf("progress data mangled: %+v", kept)
	}
}
