package sqlite

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

func TestNotificationRepository_UserScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	ana := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	bruno := createTestUser(t, db, "Bruno", "bruno@example.com", domain.RoleStudent)

	mine := &domain.Notification{UserID: ana.ID, Title: "Novo treino", Message: "Treino A", Type: domain.NotificationSuccess}
	if err := repo.Create(ctx, mine); err != nil {
		t.Fatalf("create: %v", err)
	}
	theirs := &domain.Notification{UserID: bruno.ID, Title: "Sessão", Message: "Amanhã", Type: domain.NotificationInfo}
	if err := repo.Create(ctx, theirs); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListByUser(ctx, ana.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("feed not scoped to user: %+v", list)
	}

	// Another user's id on the mutation path must not touch the row.
	if err := repo.MarkRead(ctx, mine.ID, bruno.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("MarkRead across users: %v", err)
	}
	if err := repo.Delete(ctx, mine.ID, bruno.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Delete across users: %v", err)
	}

	if err := repo.MarkRead(ctx, mine.ID, ana.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	count, err := repo.UnreadCount(ctx, ana.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 unread after MarkRead, got %d", count)
	}

	// Bruno's feed is untouched by Ana's MarkAllRead.
	if err := repo.MarkAllRead(ctx, ana.ID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	count, err = repo.UnreadCount(ctx, bruno.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected bruno to keep 1 unread, got %d", count)
	}
}
