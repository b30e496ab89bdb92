package service

import (
	"context"
	"errors"
	"strings"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify this exercise")
	ErrInvalidDifficulty    = errors.New("invalid difficulty")
	ErrInvalidMuscleGroup   = errors.New("invalid muscle group")
)

// CreateExerciseInput carries the fields for a new catalog entry.
type CreateExerciseInput struct {
	Name        string
	MuscleGroup string
	Equipment   string
	Description *string
	Difficulty  string
}

// UpdateExerciseInput is a coalesce-style patch: nil fields are left
// unchanged. Sending an explicit empty Equipment resets it to the default.
type UpdateExerciseInput struct {
	Name        *string
	MuscleGroup *string
	Equipment   *string
	Description *string
	Difficulty  *string
}

// ExerciseService manages the exercise catalog. Reads are open to any
// authenticated user; writes are trainer/admin only, and trainers may only
// touch exercises they authored.
type ExerciseService interface {
	List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	Get(ctx context.Context, id string) (*domain.Exercise, error)
	Create(ctx context.Context, creatorID string, in CreateExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, callerID string, callerRole domain.Role, id string, in UpdateExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

func (s *exerciseService) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx, filter)
}

func (s *exerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Create(ctx context.Context, creatorID string, in CreateExerciseInput) (*domain.Exercise, error) {
	if in.Name == "" || in.MuscleGroup == "" || in.Difficulty == "" {
		return nil, errors.New("name, muscle group and difficulty are required")
	}
	if !validMuscleGroup(in.MuscleGroup) {
		return nil, ErrInvalidMuscleGroup
	}
	if !domain.ValidDifficulty(in.Difficulty) {
		return nil, ErrInvalidDifficulty
	}
	exercise := &domain.Exercise{
		Name:        in.Name,
		MuscleGroup: in.MuscleGroup,
		Equipment:   in.Equipment,
		Description: in.Description,
		Difficulty:  in.Difficulty,
		CreatedBy:   &creatorID,
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, callerID string, callerRole domain.Role, id string, in UpdateExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.authorizedExercise(ctx, callerID, callerRole, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		exercise.Name = *in.Name
	}
	if in.MuscleGroup != nil {
		if !validMuscleGroup(*in.MuscleGroup) {
			return nil, ErrInvalidMuscleGroup
		}
		exercise.MuscleGroup = *in.MuscleGroup
	}
	if in.Equipment != nil {
		// Explicit empty value resets to the default; omission leaves it be.
		if *in.Equipment == "" {
			exercise.Equipment = domain.DefaultEquipment
		} else {
			exercise.Equipment = *in.Equipment
		}
	}
	if in.Description != nil {
		exercise.Description = in.Description
	}
	if in.Difficulty != nil {
		if !domain.ValidDifficulty(*in.Difficulty) {
			return nil, ErrInvalidDifficulty
		}
		exercise.Difficulty = *in.Difficulty
	}
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	if _, err := s.authorizedExercise(ctx, callerID, callerRole, id); err != nil {
		return err
	}
	return s.exerciseRepo.Delete(ctx, id)
}

// authorizedExercise fetches the exercise and enforces authorship: trainers
// may only mutate exercises they created, admins may mutate any.
func (s *exerciseService) authorizedExercise(ctx context.Context, callerID string, callerRole domain.Role, id string) (*domain.Exercise, error) {
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == domain.RoleAdmin {
		return exercise, nil
	}
	if exercise.CreatedBy == nil || *exercise.CreatedBy != callerID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// validMuscleGroup accepts a single vocabulary value or a "/"-composite of
// vocabulary values.
func validMuscleGroup(group string) bool {
	parts := strings.Split(group, "/")
	if len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		found := false
		for _, g := range domain.MuscleGroups {
			if g == strings.TrimSpace(part) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
