package sqlite

import (
	"context"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"github.com/google/uuid"
)

// completedExerciseRepository implements
// repository.CompletedExerciseRepository using SQLite.
type completedExerciseRepository struct {
	db *DB
}

// NewCompletedExerciseRepository creates a new SQLite-backed completion
// repository.
func NewCompletedExerciseRepository(db *DB) repository.CompletedExerciseRepository {
	return &completedExerciseRepository{db: db}
}

func (r *completedExerciseRepository) Create(ctx context.Context, completed *domain.CompletedExercise) error {
	if completed.ID == "" {
		completed.ID = uuid.NewString()
	}
	if completed.CompletedAt.IsZero() {
		completed.CompletedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completed_exercises (id, student_id, workout_plan_id, exercise_id, completed_at)
		VALUES (?, ?, ?, ?, ?)`,
		completed.ID,
		completed.StudentID,
		completed.WorkoutPlanID,
		completed.ExerciseID,
		completed.CompletedAt.UTC().Format(timeFormat),
	)
	return mapError(err)
}

// dayBounds returns the UTC RFC3339 bounds of the calendar day containing t,
// evaluated in t's location. Stored timestamps are UTC so the RFC3339 strings
// compare chronologically.
func dayBounds(t time.Time) (string, string) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := start.Add(24 * time.Hour)
	return start.UTC().Format(timeFormat), end.UTC().Format(timeFormat)
}

func (r *completedExerciseRepository) FindOnDay(ctx context.Context, studentID, planID, exerciseID string, day time.Time) (*domain.CompletedExercise, error) {
	start, end := dayBounds(day)
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, workout_plan_id, exercise_id, completed_at
		FROM completed_exercises
		WHERE student_id = ? AND workout_plan_id = ? AND exercise_id = ?
			AND completed_at >= ? AND completed_at < ?`,
		studentID, planID, exerciseID, start, end)

	var completed domain.CompletedExercise
	var completedAt string
	err := row.Scan(&completed.ID, &completed.StudentID, &completed.WorkoutPlanID,
		&completed.ExerciseID, &completedAt)
	if err != nil {
		return nil, mapError(err)
	}
	completed.CompletedAt = parseTime(completedAt)
	return &completed, nil
}

func (r *completedExerciseRepository) ListByStudentOnDay(ctx context.Context, studentID string, day time.Time) ([]domain.CompletedExercise, error) {
	start, end := dayBounds(day)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, workout_plan_id, exercise_id, completed_at
		FROM completed_exercises
		WHERE student_id = ? AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at`,
		studentID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []domain.CompletedExercise{}
	for rows.Next() {
		var completed domain.CompletedExercise
		var completedAt string
		err := rows.Scan(&completed.ID, &completed.StudentID, &completed.WorkoutPlanID,
			&completed.ExerciseID, &completedAt)
		if err != nil {
			return nil, err
		}
		completed.CompletedAt = parseTime(completedAt)
		completions = append(completions, completed)
	}
	return completions, rows.Err()
}

func (r *completedExerciseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM completed_exercises WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
