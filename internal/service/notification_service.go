package service

import (
	"context"
	"errors"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService exposes the strictly self-scoped mailbox: every
// operation acts on the caller's own notifications only.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new instance of notificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	err := s.notificationRepo.MarkRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	err := s.notificationRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
