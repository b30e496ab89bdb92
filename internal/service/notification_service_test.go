package service_test

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/service"
)

func TestNotificationService_SelfScoped(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	ana := e.seedStudent(t, "Ana", "ana@example.com", &trainer.ID)
	bruno := e.seedStudent(t, "Bruno", "bruno@example.com", &trainer.ID)

	for _, n := range []*domain.Notification{
		{UserID: ana.ID, Title: "Bem-vinda", Message: "Conta criada.", Type: domain.NotificationInfo},
		{UserID: ana.ID, Title: "Novo plano", Message: "Plano de treino criado.", Type: domain.NotificationSuccess},
		{UserID: bruno.ID, Title: "Bem-vindo", Message: "Conta criada.", Type: domain.NotificationInfo},
	} {
		if err := e.notifications.Create(ctx, n); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	feed, err := e.notificationSvc.List(ctx, ana.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed has %d entries, want 2", len(feed))
	}

	// Bruno cannot mark or delete Ana's notifications.
	if err := e.notificationSvc.MarkRead(ctx, bruno.ID, feed[0].ID); !errors.Is(err, service.ErrNotificationNotFound) {
		t.Errorf("cross-user MarkRead: %v", err)
	}
	if err := e.notificationSvc.Delete(ctx, bruno.ID, feed[0].ID); !errors.Is(err, service.ErrNotificationNotFound) {
		t.Errorf("cross-user Delete: %v", err)
	}

	if err := e.notificationSvc.MarkRead(ctx, ana.ID, feed[0].ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	count, err := e.notificationSvc.UnreadCount(ctx, ana.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("unread = %d, want 1", count)
	}

	if err := e.notificationSvc.MarkAllRead(ctx, ana.ID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if count, _ = e.notificationSvc.UnreadCount(ctx, ana.ID); count != 0 {
		t.Errorf("unread after MarkAllRead = %d", count)
	}
	if count, _ = e.notificationSvc.UnreadCount(ctx, bruno.ID); count != 1 {
		t.Errorf("other user's unread touched: %d", count)
	}

	if err := e.notificationSvc.Delete(ctx, ana.ID, feed[1].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if feed, _ = e.notificationSvc.List(ctx, ana.ID); len(feed) != 1 {
		t.Errorf("feed after delete has %d entries", len(feed))
	}
}
