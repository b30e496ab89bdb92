package sqlite

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

func TestExerciseRepository_CompositeMuscleGroupFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewExerciseRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	createTestExercise(t, db, "Supino Reto", "Peito", &trainer.ID)
	createTestExercise(t, db, "Mergulho", "Peito/Tríceps", &trainer.ID)
	createTestExercise(t, db, "Rosca Direta", "Bíceps", &trainer.ID)

	chest, err := repo.List(ctx, repository.ExerciseFilter{MuscleGroup: "Peito"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(chest) != 2 {
		t.Errorf("Peito should match the composite too, got %d: %+v", len(chest), chest)
	}

	triceps, err := repo.List(ctx, repository.ExerciseFilter{MuscleGroup: "Tríceps"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(triceps) != 1 || triceps[0].Name != "Mergulho" {
		t.Errorf("Tríceps should match only the composite: %+v", triceps)
	}

	// A group that is a substring of another must not match it.
	if err := repo.Create(ctx, &domain.Exercise{
		Name:        "Elevação Pélvica",
		MuscleGroup: "Glúteos",
		Equipment:   domain.DefaultEquipment,
		Difficulty:  domain.DifficultyBeginner,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	none, err := repo.List(ctx, repository.ExerciseFilter{MuscleGroup: "Glú"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("partial group name must not match: %+v", none)
	}
}

func TestExerciseRepository_SearchAndDifficulty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewExerciseRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	barbell := &domain.Exercise{
		Name:        "Supino Reto",
		MuscleGroup: "Peito",
		Equipment:   "Barra",
		Difficulty:  domain.DifficultyIntermediate,
		CreatedBy:   &trainer.ID,
	}
	if err := repo.Create(ctx, barbell); err != nil {
		t.Fatalf("create: %v", err)
	}
	createTestExercise(t, db, "Flexão", "Peito", &trainer.ID)

	// Search matches equipment as well as name.
	byEquipment, err := repo.List(ctx, repository.ExerciseFilter{Search: "barra"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byEquipment) != 1 || byEquipment[0].ID != barbell.ID {
		t.Errorf("search by equipment: %+v", byEquipment)
	}

	byDifficulty, err := repo.List(ctx, repository.ExerciseFilter{Difficulty: domain.DifficultyIntermediate})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byDifficulty) != 1 || byDifficulty[0].ID != barbell.ID {
		t.Errorf("filter by difficulty: %+v", byDifficulty)
	}
}

func TestExerciseRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewExerciseRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	exercise := createTestExercise(t, db, "Supino Reto", "Peito", &trainer.ID)
	keep := createTestExercise(t, db, "Agachamento", "Pernas", &trainer.ID)
	plan := createTestPlan(t, db, trainer.ID, student.ID, exercise.ID, keep.ID)

	if err := NewCompletedExerciseRepository(db).Create(ctx, &domain.CompletedExercise{
		StudentID:     student.ID,
		WorkoutPlanID: plan.ID,
		ExerciseID:    exercise.ID,
	}); err != nil {
		t.Fatalf("create completion: %v", err)
	}

	if err := repo.Delete(ctx, exercise.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, exercise.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("exercise still present: %v", err)
	}

	// The plan survives with only the remaining exercise row.
	got, err := NewWorkoutPlanRepository(db).GetByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].ExerciseID != keep.ID {
		t.Errorf("plan rows after exercise delete: %+v", got.Exercises)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completed_exercises WHERE exercise_id = ?`, exercise.ID).Scan(&n); err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if n != 0 {
		t.Errorf("completions not cascaded: %d rows", n)
	}
}
