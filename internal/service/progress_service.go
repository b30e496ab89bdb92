package service

import (
	"context"
	"errors"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrProgressNotFound     = errors.New("progress entry not found")
	ErrProgressAccessDenied = errors.New("access denied to this progress entry")
	ErrWeightRequired       = errors.New("weight is required")
	ErrStudentIDRequired    = errors.New("student_id is required for trainers")
)

// CreateProgressInput carries a new measurement snapshot. StudentID is
// ignored for student callers, who always record against themselves.
type CreateProgressInput struct {
	StudentID string
	SessionID *string
	Date      string
	Weight    float64
	BodyFat   *float64
	Chest     *float64
	Waist     *float64
	Hips      *float64
	Arms      *float64
	Thighs    *float64
	Notes     *string
}

// UpdateProgressInput is a coalesce-style patch: nil fields are left
// unchanged.
type UpdateProgressInput struct {
	SessionID *string
	Date      *string
	Weight    *float64
	BodyFat   *float64
	Chest     *float64
	Waist     *float64
	Hips      *float64
	Arms      *float64
	Thighs    *float64
	Notes     *string
}

// ProgressService manages body measurement history. Students operate on
// their own entries; trainers on entries of students linked to them; admins
// on any.
type ProgressService interface {
	// List returns the history for studentID after scoping: students may
	// only pass themselves, trainers must pass one of their students.
	List(ctx context.Context, callerID string, callerRole domain.Role, studentID string) ([]domain.StudentProgress, error)
	Create(ctx context.Context, callerID string, callerRole domain.Role, in CreateProgressInput) (*domain.StudentProgress, error)
	Update(ctx context.Context, callerID string, callerRole domain.Role, id string, in UpdateProgressInput) (*domain.StudentProgress, error)
	Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error
}

type progressService struct {
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(progressRepo repository.ProgressRepository, userRepo repository.UserRepository) ProgressService {
	return &progressService{progressRepo: progressRepo, userRepo: userRepo}
}

func (s *progressService) List(ctx context.Context, callerID string, callerRole domain.Role, studentID string) ([]domain.StudentProgress, error) {
	resolved, err := s.resolveStudent(ctx, callerID, callerRole, studentID)
	if err != nil {
		return nil, err
	}
	return s.progressRepo.ListByStudent(ctx, resolved)
}

func (s *progressService) Create(ctx context.Context, callerID string, callerRole domain.Role, in CreateProgressInput) (*domain.StudentProgress, error) {
	if in.Weight == 0 {
		return nil, ErrWeightRequired
	}
	studentID, err := s.resolveStudent(ctx, callerID, callerRole, in.StudentID)
	if err != nil {
		return nil, err
	}
	entry := &domain.StudentProgress{
		StudentID: studentID,
		SessionID: in.SessionID,
		Date:      in.Date,
		Weight:    in.Weight,
		BodyFat:   in.BodyFat,
		Chest:     in.Chest,
		Waist:     in.Waist,
		Hips:      in.Hips,
		Arms:      in.Arms,
		Thighs:    in.Thighs,
		Notes:     in.Notes,
	}
	if err := s.progressRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *progressService) Update(ctx context.Context, callerID string, callerRole domain.Role, id string, in UpdateProgressInput) (*domain.StudentProgress, error) {
	entry, err := s.authorizedEntry(ctx, callerID, callerRole, id)
	if err != nil {
		return nil, err
	}
	if in.SessionID != nil {
		entry.SessionID = in.SessionID
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if in.Weight != nil {
		entry.Weight = *in.Weight
	}
	if in.BodyFat != nil {
		entry.BodyFat = in.BodyFat
	}
	if in.Chest != nil {
		entry.Chest = in.Chest
	}
	if in.Waist != nil {
		entry.Waist = in.Waist
	}
	if in.Hips != nil {
		entry.Hips = in.Hips
	}
	if in.Arms != nil {
		entry.Arms = in.Arms
	}
	if in.Thighs != nil {
		entry.Thighs = in.Thighs
	}
	if in.Notes != nil {
		entry.Notes = in.Notes
	}
	if err := s.progressRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete requires ownership: the student the entry belongs to, their linked
// trainer, or an admin.
func (s *progressService) Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	if _, err := s.authorizedEntry(ctx, callerID, callerRole, id); err != nil {
		return err
	}
	return s.progressRepo.Delete(ctx, id)
}

// resolveStudent maps the caller to the student whose history is being
// touched. Students are always scoped to themselves; trainers must name one
// of their own students; admins may name anyone.
func (s *progressService) resolveStudent(ctx context.Context, callerID string, callerRole domain.Role, studentID string) (string, error) {
	switch callerRole {
	case domain.RoleStudent:
		return callerID, nil
	case domain.RoleAdmin:
		if studentID == "" {
			return "", ErrStudentIDRequired
		}
		return studentID, nil
	default:
		if studentID == "" {
			return "", ErrStudentIDRequired
		}
		student, err := s.userRepo.GetByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrStudentNotFound
			}
			return "", err
		}
		if student.TrainerID == nil || *student.TrainerID != callerID {
			return "", ErrStudentNotManaged
		}
		return studentID, nil
	}
}

func (s *progressService) authorizedEntry(ctx context.Context, callerID string, callerRole domain.Role, id string) (*domain.StudentProgress, error) {
	entry, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if callerRole == domain.RoleAdmin || entry.StudentID == callerID {
		return entry, nil
	}
	if callerRole == domain.RoleTrainer {
		student, err := s.userRepo.GetByID(ctx, entry.StudentID)
		if err == nil && student.TrainerID != nil && *student.TrainerID == callerID {
			return entry, nil
		}
	}
	return nil, ErrProgressAccessDenied
}
