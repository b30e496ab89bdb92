package repository

import (
	"context"
	"time"

	"fitpro/gym-app/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserFilter narrows admin user listings. Search matches name or email as a
// substring; empty fields are ignored and provided fields AND together.
type UserFilter struct {
	Search string
	Role   domain.Role
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Recent(ctx context.Context, limit int) ([]domain.User, error)
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
	CountVerified(ctx context.Context) (verified, unverified int, err error)
	GetStudentsByTrainerID(ctx context.Context, trainerID string) ([]domain.User, error)
	SetTrainerForStudent(ctx context.Context, studentID string, trainerID *string) error
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user and every row referencing them, children first,
	// inside a single transaction.
	Delete(ctx context.Context, id string) error
}

// ExerciseFilter narrows catalog listings. MuscleGroup matches composite
// membership ("Peito/Tríceps" targets both groups); Search matches name or
// equipment as a substring.
type ExerciseFilter struct {
	MuscleGroup string
	Difficulty  string
	Search      string
}

// ExerciseRepository defines the interface for interacting with the exercise
// catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// Delete removes the exercise after removing its workout_exercises and
	// completed_exercises references, inside a single transaction.
	Delete(ctx context.Context, id string) error
}

// WorkoutPlanRepository defines the interface for interacting with workout
// plans and their ordered exercise rows.
type WorkoutPlanRepository interface {
	// Create inserts the plan and its exercise batch in one transaction,
	// assigning contiguous sort_order values starting at 0.
	Create(ctx context.Context, plan *domain.WorkoutPlan) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.WorkoutPlan, error)
	ListActiveByStudent(ctx context.Context, studentID string) ([]domain.WorkoutPlan, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	// UpdateWithExercises updates the plan row and swaps its exercise list
	// for the given one, all in a single transaction. A failure leaves both
	// the plan and its rows untouched.
	UpdateWithExercises(ctx context.Context, plan *domain.WorkoutPlan, exercises []domain.WorkoutExercise) error
	// ReplaceExercises deletes the plan's exercise rows and reinserts the
	// given list in order, in one transaction.
	ReplaceExercises(ctx context.Context, planID string, exercises []domain.WorkoutExercise) error
	// Delete removes the plan, its workout_exercises and its
	// completed_exercises rows in one transaction.
	Delete(ctx context.Context, id string) error
}

// CompletedExerciseRepository tracks the per-day completion toggles.
type CompletedExerciseRepository interface {
	Create(ctx context.Context, completed *domain.CompletedExercise) error
	// FindOnDay returns the completion row for the given key scoped to the
	// calendar day of day, or ErrNotFound.
	FindOnDay(ctx context.Context, studentID, planID, exerciseID string, day time.Time) (*domain.CompletedExercise, error)
	ListByStudentOnDay(ctx context.Context, studentID string, day time.Time) ([]domain.CompletedExercise, error)
	Delete(ctx context.Context, id string) error
}

// SessionFilter narrows schedule listings; zero values are ignored.
type SessionFilter struct {
	Date   string
	Status domain.SessionStatus
}

// ScheduleRepository defines the interface for interacting with schedule
// sessions.
type ScheduleRepository interface {
	Create(ctx context.Context, session *domain.ScheduleSession) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleSession, error)
	ListByTrainer(ctx context.Context, trainerID string, filter SessionFilter) ([]domain.ScheduleSession, error)
	ListByStudent(ctx context.Context, studentID string, filter SessionFilter) ([]domain.ScheduleSession, error)
	// ListOnDate returns all sessions on the given date with trainer and
	// student names joined in.
	ListOnDate(ctx context.Context, date string) ([]domain.ScheduleSession, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, session *domain.ScheduleSession) error
	Delete(ctx context.Context, id string) error
}

// ProgressRepository defines the interface for interacting with student
// progress entries.
type ProgressRepository interface {
	Create(ctx context.Context, entry *domain.StudentProgress) error
	GetByID(ctx context.Context, id string) (*domain.StudentProgress, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.StudentProgress, error)
	Update(ctx context.Context, entry *domain.StudentProgress) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines the interface for the per-user mailbox.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}
