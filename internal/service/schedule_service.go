package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to this session")
	ErrInvalidSessionType  = errors.New("invalid session type")
	ErrInvalidStatus       = errors.New("invalid session status")
)

// CreateSessionInput carries a new appointment. Duration defaults to 60
// minutes when zero.
type CreateSessionInput struct {
	StudentID string
	Date      string
	Time      string
	Duration  int
	Type      string
	Notes     *string
}

// UpdateSessionInput is a coalesce-style patch: nil fields are left
// unchanged.
type UpdateSessionInput struct {
	Date     *string
	Time     *string
	Duration *int
	Type     *string
	Status   *domain.SessionStatus
	Notes    *string
}

// ScheduleService manages trainer/student appointments.
type ScheduleService interface {
	// List returns the sessions role-scoped to the caller: trainers see
	// sessions they conduct, students see sessions booked for them.
	List(ctx context.Context, callerID string, callerRole domain.Role, filter repository.SessionFilter) ([]domain.ScheduleSession, error)
	Create(ctx context.Context, trainerID string, in CreateSessionInput) (*domain.ScheduleSession, error)
	Update(ctx context.Context, callerID string, callerRole domain.Role, id string, in UpdateSessionInput) (*domain.ScheduleSession, error)
	Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error
}

type scheduleService struct {
	scheduleRepo     repository.ScheduleRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) ScheduleService {
	return &scheduleService{
		scheduleRepo:     scheduleRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *scheduleService) List(ctx context.Context, callerID string, callerRole domain.Role, filter repository.SessionFilter) ([]domain.ScheduleSession, error) {
	if filter.Status != "" && !domain.ValidSessionStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if callerRole == domain.RoleStudent {
		return s.scheduleRepo.ListByStudent(ctx, callerID, filter)
	}
	return s.scheduleRepo.ListByTrainer(ctx, callerID, filter)
}

// Create books a session. Only a trainer may create one, and only for a
// student linked to them; the student is notified.
func (s *scheduleService) Create(ctx context.Context, trainerID string, in CreateSessionInput) (*domain.ScheduleSession, error) {
	if in.StudentID == "" || in.Date == "" || in.Time == "" {
		return nil, errors.New("student, date and time are required")
	}
	if !domain.ValidSessionType(in.Type) {
		return nil, ErrInvalidSessionType
	}

	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	student, err := s.userRepo.GetByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.TrainerID == nil || *student.TrainerID != trainerID {
		return nil, ErrStudentNotManaged
	}

	session := &domain.ScheduleSession{
		TrainerID: trainerID,
		StudentID: in.StudentID,
		Date:      in.Date,
		Time:      in.Time,
		Duration:  in.Duration,
		Type:      in.Type,
		Status:    domain.StatusScheduled,
		Notes:     in.Notes,
	}
	if err := s.scheduleRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	n := &domain.Notification{
		UserID:  student.ID,
		Title:   "Nova sessão agendada",
		Message: fmt.Sprintf("%s agendou %s para %s às %s.", trainer.Name, session.Type, session.Date, session.Time),
		Type:    domain.NotificationInfo,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("WARN: failed to create session notification for %s: %v", student.ID, err)
	}

	return session, nil
}

// Update patches a session. The owning trainer or an admin may edit it.
func (s *scheduleService) Update(ctx context.Context, callerID string, callerRole domain.Role, id string, in UpdateSessionInput) (*domain.ScheduleSession, error) {
	session, err := s.authorizedSession(ctx, callerID, callerRole, id)
	if err != nil {
		return nil, err
	}
	if in.Date != nil {
		session.Date = *in.Date
	}
	if in.Time != nil {
		session.Time = *in.Time
	}
	if in.Duration != nil {
		session.Duration = *in.Duration
	}
	if in.Type != nil {
		if !domain.ValidSessionType(*in.Type) {
			return nil, ErrInvalidSessionType
		}
		session.Type = *in.Type
	}
	if in.Status != nil {
		if !domain.ValidSessionStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		session.Status = *in.Status
	}
	if in.Notes != nil {
		session.Notes = in.Notes
	}
	if err := s.scheduleRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *scheduleService) Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	if _, err := s.authorizedSession(ctx, callerID, callerRole, id); err != nil {
		return err
	}
	return s.scheduleRepo.Delete(ctx, id)
}

// authorizedSession fetches the session and enforces ownership: the trainer
// who booked it, or an admin.
func (s *scheduleService) authorizedSession(ctx context.Context, callerID string, callerRole domain.Role, id string) (*domain.ScheduleSession, error) {
	session, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if callerRole != domain.RoleAdmin && session.TrainerID != callerID {
		return nil, ErrSessionAccessDenied
	}
	return session, nil
}
