package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"github.com/google/uuid"
)

// workoutPlanRepository implements repository.WorkoutPlanRepository using
// SQLite. Plan rows and their ordered workout_exercises children are always
// written together inside a transaction.
type workoutPlanRepository struct {
	db *DB
}

// NewWorkoutPlanRepository creates a new SQLite-backed workout plan repository.
func NewWorkoutPlanRepository(db *DB) repository.WorkoutPlanRepository {
	return &workoutPlanRepository{db: db}
}

func (r *workoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	days, err := json.Marshal(plan.DayOfWeek)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workout_plans (id, name, description, trainer_id, student_id, day_of_week, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			plan.ID,
			plan.Name,
			nullString(plan.Description),
			plan.TrainerID,
			plan.StudentID,
			string(days),
			plan.IsActive,
			plan.CreatedAt.UTC().Format(timeFormat),
		)
		if err != nil {
			return mapError(err)
		}
		return insertPlanExercises(ctx, tx, plan.ID, plan.Exercises)
	})
}

// insertPlanExercises writes the exercise batch with contiguous sort_order
// values starting at 0, in list order.
func insertPlanExercises(ctx context.Context, tx *sql.Tx, planID string, exercises []domain.WorkoutExercise) error {
	for i := range exercises {
		we := &exercises[i]
		if we.ID == "" {
			we.ID = uuid.NewString()
		}
		we.WorkoutPlanID = planID
		we.SortOrder = i
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workout_exercises (id, workout_plan_id, exercise_id, sets, reps, rest_seconds, weight, notes, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			we.ID,
			we.WorkoutPlanID,
			we.ExerciseID,
			we.Sets,
			we.Reps,
			we.RestSeconds,
			nullString(we.Weight),
			nullString(we.Notes),
			we.SortOrder,
		)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *workoutPlanRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.description, p.trainer_id, p.student_id, p.day_of_week,
			p.is_active, p.created_at, u.name
		FROM workout_plans p
		JOIN users u ON u.id = p.student_id
		WHERE p.id = ?`, id)
	plan, err := scanPlan(row)
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.attachExercises(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *workoutPlanRepository) ListByTrainer(ctx context.Context, trainerID string) ([]domain.WorkoutPlan, error) {
	return r.queryPlans(ctx, `
		SELECT p.id, p.name, p.description, p.trainer_id, p.student_id, p.day_of_week,
			p.is_active, p.created_at, u.name
		FROM workout_plans p
		JOIN users u ON u.id = p.student_id
		WHERE p.trainer_id = ?
		ORDER BY p.created_at DESC`, trainerID)
}

func (r *workoutPlanRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]domain.WorkoutPlan, error) {
	return r.queryPlans(ctx, `
		SELECT p.id, p.name, p.description, p.trainer_id, p.student_id, p.day_of_week,
			p.is_active, p.created_at, u.name
		FROM workout_plans p
		JOIN users u ON u.id = p.student_id
		WHERE p.student_id = ? AND p.is_active = 1
		ORDER BY p.created_at DESC`, studentID)
}

func (r *workoutPlanRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_plans`).Scan(&n)
	return n, err
}

func (r *workoutPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return updatePlanRow(ctx, tx, plan)
	})
}

// UpdateWithExercises updates the plan row and swaps its exercise list in the
// same transaction, so a failure in either step leaves both untouched.
func (r *workoutPlanRepository) UpdateWithExercises(ctx context.Context, plan *domain.WorkoutPlan, exercises []domain.WorkoutExercise) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := updatePlanRow(ctx, tx, plan); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM workout_exercises WHERE workout_plan_id = ?`, plan.ID); err != nil {
			return mapError(err)
		}
		return insertPlanExercises(ctx, tx, plan.ID, exercises)
	})
}

func updatePlanRow(ctx context.Context, tx *sql.Tx, plan *domain.WorkoutPlan) error {
	days, err := json.Marshal(plan.DayOfWeek)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE workout_plans SET name = ?, description = ?, day_of_week = ?, is_active = ?
		WHERE id = ?`,
		plan.Name,
		nullString(plan.Description),
		string(days),
		plan.IsActive,
		plan.ID,
	)
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

// ReplaceExercises swaps the plan's exercise list for the given one:
// delete all rows, reinsert in order, one transaction.
func (r *workoutPlanRepository) ReplaceExercises(ctx context.Context, planID string, exercises []domain.WorkoutExercise) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM workout_exercises WHERE workout_plan_id = ?`, planID); err != nil {
			return mapError(err)
		}
		return insertPlanExercises(ctx, tx, planID, exercises)
	})
}

func (r *workoutPlanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM completed_exercises WHERE workout_plan_id = ?`, id); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM workout_exercises WHERE workout_plan_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM workout_plans WHERE id = ?`, id)
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
	})
}

func (r *workoutPlanRepository) queryPlans(ctx context.Context, query string, args ...any) ([]domain.WorkoutPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []domain.WorkoutPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range plans {
		if err := r.attachExercises(ctx, &plans[i]); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// attachExercises loads the plan's rows joined with catalog metadata, ordered
// by sort_order.
func (r *workoutPlanRepository) attachExercises(ctx context.Context, plan *domain.WorkoutPlan) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT we.id, we.workout_plan_id, we.exercise_id, we.sets, we.reps, we.rest_seconds,
			we.weight, we.notes, we.sort_order, e.name, e.muscle_group, e.equipment
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_plan_id = ?
		ORDER BY we.sort_order`, plan.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	plan.Exercises = []domain.WorkoutExercise{}
	for rows.Next() {
		var (
			we             domain.WorkoutExercise
			weight, notes  sql.NullString
			name, group    string
			equipment      string
		)
		err := rows.Scan(
			&we.ID, &we.WorkoutPlanID, &we.ExerciseID, &we.Sets, &we.Reps, &we.RestSeconds,
			&weight, &notes, &we.SortOrder, &name, &group, &equipment,
		)
		if err != nil {
			return err
		}
		we.Weight = stringPtr(weight)
		we.Notes = stringPtr(notes)
		we.ExerciseName = &name
		we.MuscleGroup = &group
		we.Equipment = &equipment
		plan.Exercises = append(plan.Exercises, we)
	}
	return rows.Err()
}

func scanPlan(s scanner) (*domain.WorkoutPlan, error) {
	var (
		plan        domain.WorkoutPlan
		description sql.NullString
		days        string
		createdAt   string
		studentName string
	)
	err := s.Scan(
		&plan.ID, &plan.Name, &description, &plan.TrainerID, &plan.StudentID,
		&days, &plan.IsActive, &createdAt, &studentName,
	)
	if err != nil {
		return nil, err
	}
	plan.Description = stringPtr(description)
	plan.CreatedAt = parseTime(createdAt)
	plan.StudentName = &studentName
	if err := json.Unmarshal([]byte(days), &plan.DayOfWeek); err != nil {
		plan.DayOfWeek = []string{}
	}
	return &plan, nil
}
