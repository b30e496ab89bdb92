package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("workout plan not found")
	ErrPlanAccessDenied  = errors.New("access denied to this workout plan")
	ErrInvalidWeekday    = errors.New("invalid weekday name")
	ErrInvalidSets       = errors.New("sets must be at least 1")
	ErrInvalidRest       = errors.New("rest seconds cannot be negative")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidIntensity  = errors.New("invalid intensity")
	ErrEmptyExerciseList = errors.New("a workout plan needs at least one exercise")
)

// Feedback intensity labels, matching the UI options.
var feedbackIntensities = []string{"Leve", "Moderada", "Intensa"}

// PlanExerciseInput is one row of a plan's exercise list, in display order.
type PlanExerciseInput struct {
	ExerciseID  string  `json:"exerciseId"`
	Sets        int     `json:"sets"`
	Reps        string  `json:"reps"`
	RestSeconds int     `json:"restSeconds"`
	Weight      *string `json:"weight,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// CreatePlanInput carries a new plan with its initial exercise list.
type CreatePlanInput struct {
	Name        string
	Description *string
	StudentID   string
	DayOfWeek   []string
	Exercises   []PlanExerciseInput
}

// UpdatePlanInput is a coalesce-style patch. A non-nil Exercises replaces the
// whole list (delete-all-then-reinsert); nil leaves it untouched.
type UpdatePlanInput struct {
	Name        *string
	Description *string
	DayOfWeek   *[]string
	IsActive    *bool
	Exercises   *[]PlanExerciseInput
}

// FeedbackInput is a student's post-workout report, turned into a
// notification for the plan's trainer.
type FeedbackInput struct {
	DurationMinutes int
	Rating          int
	Intensity       string
	Observations    *string
}

// WorkoutService manages workout plans, completion toggles and workout
// feedback.
type WorkoutService interface {
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.WorkoutPlan, error)
	ListActiveByStudent(ctx context.Context, studentID string) ([]domain.WorkoutPlan, error)
	Get(ctx context.Context, callerID string, callerRole domain.Role, id string) (*domain.WorkoutPlan, error)
	Create(ctx context.Context, trainerID string, in CreatePlanInput) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, trainerID, planID string, in UpdatePlanInput) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, trainerID, planID string) error
	// ToggleCompletion flips the completion state of one exercise for the
	// calendar day of now: inserts when absent, removes when present.
	// Returns the resulting state.
	ToggleCompletion(ctx context.Context, studentID, planID, exerciseID string) (completed bool, err error)
	CompletedToday(ctx context.Context, studentID string) ([]domain.CompletedExercise, error)
	SubmitFeedback(ctx context.Context, studentID, planID string, in FeedbackInput) error
}

type workoutService struct {
	planRepo         repository.WorkoutPlanRepository
	userRepo         repository.UserRepository
	exerciseRepo     repository.ExerciseRepository
	completedRepo    repository.CompletedExerciseRepository
	notificationRepo repository.NotificationRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	planRepo repository.WorkoutPlanRepository,
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	completedRepo repository.CompletedExerciseRepository,
	notificationRepo repository.NotificationRepository,
) WorkoutService {
	return &workoutService{
		planRepo:         planRepo,
		userRepo:         userRepo,
		exerciseRepo:     exerciseRepo,
		completedRepo:    completedRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *workoutService) ListByTrainer(ctx context.Context, trainerID string) ([]domain.WorkoutPlan, error) {
	return s.planRepo.ListByTrainer(ctx, trainerID)
}

func (s *workoutService) ListActiveByStudent(ctx context.Context, studentID string) ([]domain.WorkoutPlan, error) {
	return s.planRepo.ListActiveByStudent(ctx, studentID)
}

// Get returns the plan when the caller is its trainer, its student, or an
// admin.
func (s *workoutService) Get(ctx context.Context, callerID string, callerRole domain.Role, id string) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if callerRole != domain.RoleAdmin && plan.TrainerID != callerID && plan.StudentID != callerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func (s *workoutService) Create(ctx context.Context, trainerID string, in CreatePlanInput) (*domain.WorkoutPlan, error) {
	if in.Name == "" || in.StudentID == "" {
		return nil, errors.New("name and student are required")
	}
	if len(in.Exercises) == 0 {
		return nil, ErrEmptyExerciseList
	}
	if err := validateWeekdays(in.DayOfWeek); err != nil {
		return nil, err
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

	exercises, err := s.buildExerciseRows(ctx, in.Exercises)
	if err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		Name:        in.Name,
		Description: in.Description,
		TrainerID:   trainerID,
		StudentID:   in.StudentID,
		DayOfWeek:   in.DayOfWeek,
		IsActive:    true,
		Exercises:   exercises,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.notify(ctx, student.ID, "Novo treino disponível",
		fmt.Sprintf("%s criou o treino %q para você.", trainer.Name, plan.Name),
		domain.NotificationSuccess)

	return s.planRepo.GetByID(ctx, plan.ID)
}

func (s *workoutService) Update(ctx context.Context, trainerID, planID string, in UpdatePlanInput) (*domain.WorkoutPlan, error) {
	plan, err := s.ownedPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}

	// Validate the whole patch before touching the database, so a bad
	// exercise list cannot leave a half-applied update behind.
	var rows []domain.WorkoutExercise
	if in.Exercises != nil {
		if len(*in.Exercises) == 0 {
			return nil, ErrEmptyExerciseList
		}
		if rows, err = s.buildExerciseRows(ctx, *in.Exercises); err != nil {
			return nil, err
		}
	}
	if in.DayOfWeek != nil {
		if err := validateWeekdays(*in.DayOfWeek); err != nil {
			return nil, err
		}
		plan.DayOfWeek = *in.DayOfWeek
	}
	if in.Name != nil {
		plan.Name = *in.Name
	}
	if in.Description != nil {
		plan.Description = in.Description
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}

	if in.Exercises != nil {
		err = s.planRepo.UpdateWithExercises(ctx, plan, rows)
	} else {
		err = s.planRepo.Update(ctx, plan)
	}
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, planID)
}

func (s *workoutService) Delete(ctx context.Context, trainerID, planID string) error {
	if _, err := s.ownedPlan(ctx, trainerID, planID); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

func (s *workoutService) ToggleCompletion(ctx context.Context, studentID, planID, exerciseID string) (bool, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrPlanNotFound
		}
		return false, err
	}
	if plan.StudentID != studentID {
		return false, ErrPlanAccessDenied
	}
	inPlan := false
	for i := range plan.Exercises {
		if plan.Exercises[i].ExerciseID == exerciseID {
			inPlan = true
			break
		}
	}
	if !inPlan {
		return false, ErrExerciseNotFound
	}

	now := time.Now()
	existing, err := s.completedRepo.FindOnDay(ctx, studentID, planID, exerciseID, now)
	switch {
	case err == nil:
		// Already completed today: un-complete.
		if err := s.completedRepo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		completed := &domain.CompletedExercise{
			StudentID:     studentID,
			WorkoutPlanID: planID,
			ExerciseID:    exerciseID,
			CompletedAt:   now,
		}
		if err := s.completedRepo.Create(ctx, completed); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (s *workoutService) CompletedToday(ctx context.Context, studentID string) ([]domain.CompletedExercise, error) {
	return s.completedRepo.ListByStudentOnDay(ctx, studentID, time.Now())
}

// SubmitFeedback formats the student's report into a notification for the
// plan's trainer.
func (s *workoutService) SubmitFeedback(ctx context.Context, studentID, planID string, in FeedbackInput) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.StudentID != studentID {
		return ErrPlanAccessDenied
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ErrInvalidRating
	}
	valid := false
	for _, label := range feedbackIntensities {
		if label == in.Intensity {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidIntensity
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	stars := strings.Repeat("★", in.Rating) + strings.Repeat("☆", 5-in.Rating)
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s concluiu o treino %q.\n", student.Name, plan.Name)
	fmt.Fprintf(&msg, "Duração: %d min\n", in.DurationMinutes)
	fmt.Fprintf(&msg, "Avaliação: %s\n", stars)
	fmt.Fprintf(&msg, "Intensidade: %s", in.Intensity)
	if in.Observations != nil && *in.Observations != "" {
		fmt.Fprintf(&msg, "\nObservações: %s", *in.Observations)
	}

	s.notify(ctx, plan.TrainerID, "Feedback de treino", msg.String(), domain.NotificationInfo)
	return nil
}

// buildExerciseRows validates the incoming exercise list and resolves each
// catalog reference before the batch insert.
func (s *workoutService) buildExerciseRows(ctx context.Context, inputs []PlanExerciseInput) ([]domain.WorkoutExercise, error) {
	rows := make([]domain.WorkoutExercise, 0, len(inputs))
	for _, in := range inputs {
		if in.Sets < 1 {
			return nil, ErrInvalidSets
		}
		if in.RestSeconds < 0 {
			return nil, ErrInvalidRest
		}
		if _, err := s.exerciseRepo.GetByID(ctx, in.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrExerciseNotFound
			}
			return nil, err
		}
		rows = append(rows, domain.WorkoutExercise{
			ExerciseID:  in.ExerciseID,
			Sets:        in.Sets,
			Reps:        in.Reps,
			RestSeconds: in.RestSeconds,
			Weight:      in.Weight,
			Notes:       in.Notes,
		})
	}
	return rows, nil
}

func (s *workoutService) ownedPlan(ctx context.Context, trainerID, planID string) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func (s *workoutService) notify(ctx context.Context, userID, title, message string, typ domain.NotificationType) {
	n := &domain.Notification{UserID: userID, Title: title, Message: message, Type: typ}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("WARN: failed to create notification for %s: %v", userID, err)
	}
}

func validateWeekdays(days []string) error {
	for _, day := range days {
		if !domain.ValidWeekday(day) {
			return ErrInvalidWeekday
		}
	}
	return nil
}
