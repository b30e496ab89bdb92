package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"fitpro/gym-app/internal/domain"
)

// newTestDB opens a migrated database in a per-test temp directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "fitpro_test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string, role domain.Role) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashed",
		Role:         role,
		Avatar:       "💪",
	}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createTestExercise(t *testing.T, db *DB, name, muscleGroup string, createdBy *string) *domain.Exercise {
	t.Helper()

	exercise := &domain.Exercise{
		Name:        name,
		MuscleGroup: muscleGroup,
		Equipment:   domain.DefaultEquipment,
		Difficulty:  domain.DifficultyBeginner,
		CreatedBy:   createdBy,
	}
	if err := NewExerciseRepository(db).Create(context.Background(), exercise); err != nil {
		t.Fatalf("create exercise %s: %v", name, err)
	}
	return exercise
}

func createTestPlan(t *testing.T, db *DB, trainerID, studentID string, exerciseIDs ...string) *domain.WorkoutPlan {
	t.Helper()

	plan := &domain.WorkoutPlan{
		Name:      "Treino A",
		TrainerID: trainerID,
		StudentID: studentID,
		DayOfWeek: []string{"Segunda", "Quarta"},
		IsActive:  true,
	}
	for _, id := range exerciseIDs {
		plan.Exercises = append(plan.Exercises, domain.WorkoutExercise{
			ExerciseID:  id,
			Sets:        3,
			Reps:        "8-12",
			RestSeconds: 60,
		})
	}
	if err := NewWorkoutPlanRepository(db).Create(context.Background(), plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func createTestSession(t *testing.T, db *DB, trainerID, studentID, date string) *domain.ScheduleSession {
	t.Helper()

	session := &domain.ScheduleSession{
		TrainerID: trainerID,
		StudentID: studentID,
		Date:      date,
		Time:      "10:00",
		Duration:  60,
		Type:      domain.SessionTypeWorkout,
		Status:    domain.StatusScheduled,
	}
	if err := NewScheduleRepository(db).Create(context.Background(), session); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func strPtr(s string) *string { return &s }
