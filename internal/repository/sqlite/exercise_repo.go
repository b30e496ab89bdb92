package sqlite

import (
	"context"
	"database/sql"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"github.com/google/uuid"
)

const exerciseColumns = `id, name, muscle_group, equipment, description, difficulty, created_by, created_at`

// exerciseRepository implements repository.ExerciseRepository using SQLite.
type exerciseRepository struct {
	db *DB
}

// NewExerciseRepository creates a new SQLite-backed exercise repository.
func NewExerciseRepository(db *DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = uuid.NewString()
	}
	if exercise.Equipment == "" {
		exercise.Equipment = domain.DefaultEquipment
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exercises (`+exerciseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exercise.ID,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Equipment,
		nullString(exercise.Description),
		exercise.Difficulty,
		nullString(exercise.CreatedBy),
		exercise.CreatedAt.UTC().Format(timeFormat),
	)
	return mapError(err)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	exercise, err := scanExercise(row)
	if err != nil {
		return nil, mapError(err)
	}
	return exercise, nil
}

func (r *exerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE 1=1`
	var args []any
	if filter.MuscleGroup != "" {
		// Composite values like "Peito/Tríceps" count as membership in each
		// of their groups.
		query += ` AND ('/' || muscle_group || '/') LIKE ?`
		args = append(args, "%/"+filter.MuscleGroup+"/%")
	}
	if filter.Difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, filter.Difficulty)
	}
	if filter.Search != "" {
		query += ` AND (name LIKE ? OR equipment LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY muscle_group, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}
	return exercises, rows.Err()
}

func (r *exerciseRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n)
	return n, err
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE exercises SET name = ?, muscle_group = ?, equipment = ?, description = ?, difficulty = ?
		WHERE id = ?`,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Equipment,
		nullString(exercise.Description),
		exercise.Difficulty,
		exercise.ID,
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

// Delete removes the exercise and every plan/completion row referencing it in
// a single transaction.
func (r *exerciseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM completed_exercises WHERE exercise_id = ?`, id); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM workout_exercises WHERE exercise_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
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

func scanExercise(s scanner) (*domain.Exercise, error) {
	var (
		exercise    domain.Exercise
		description sql.NullString
		createdBy   sql.NullString
		createdAt   string
	)
	err := s.Scan(
		&exercise.ID, &exercise.Name, &exercise.MuscleGroup, &exercise.Equipment,
		&description, &exercise.Difficulty, &createdBy, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	exercise.Description = stringPtr(description)
	exercise.CreatedBy = stringPtr(createdBy)
	exercise.CreatedAt = parseTime(createdAt)
	return &exercise, nil
}
