package sqlite

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

func TestWorkoutPlanRepository_CreateAssignsOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	supino := createTestExercise(t, db, "Supino Reto", "Peito", &trainer.ID)
	triceps := createTestExercise(t, db, "Tríceps Corda", "Tríceps", &trainer.ID)
	cruci := createTestExercise(t, db, "Crucifixo", "Peito", &trainer.ID)

	plan := createTestPlan(t, db, trainer.ID, student.ID, supino.ID, triceps.ID, cruci.ID)

	got, err := NewWorkoutPlanRepository(db).GetByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Exercises) != 3 {
		t.Fatalf("expected 3 exercise rows, got %d", len(got.Exercises))
	}
	wantOrder := []string{supino.ID, triceps.ID, cruci.ID}
	for i, row := range got.Exercises {
		if row.SortOrder != i {
			t.Errorf("row %d has sort_order %d", i, row.SortOrder)
		}
		if row.ExerciseID != wantOrder[i] {
			t.Errorf("row %d is %s, want %s", i, row.ExerciseID, wantOrder[i])
		}
		if row.ExerciseName == nil {
			t.Errorf("row %d missing joined exercise name", i)
		}
	}
	if got.StudentName == nil || *got.StudentName != "Ana" {
		t.Errorf("student name not joined: %v", got.StudentName)
	}
	if len(got.DayOfWeek) != 2 || got.DayOfWeek[0] != "Segunda" {
		t.Errorf("day_of_week not round-tripped: %v", got.DayOfWeek)
	}
}

func TestWorkoutPlanRepository_ListActiveByStudent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewWorkoutPlanRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	exercise := createTestExercise(t, db, "Agachamento", "Pernas", &trainer.ID)

	active := createTestPlan(t, db, trainer.ID, student.ID, exercise.ID)
	retired := createTestPlan(t, db, trainer.ID, student.ID, exercise.ID)
	retired.IsActive = false
	if err := repo.Update(ctx, retired); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	plans, err := repo.ListActiveByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListActiveByStudent failed: %v", err)
	}
	if len(plans) != 1 || plans[0].ID != active.ID {
		t.Fatalf("expected only the active plan, got %+v", plans)
	}

	all, err := repo.ListByTrainer(ctx, trainer.ID)
	if err != nil {
		t.Fatalf("ListByTrainer failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("trainer should see both plans, got %d", len(all))
	}
}

func TestWorkoutPlanRepository_ReplaceExercises(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewWorkoutPlanRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	a := createTestExercise(t, db, "Supino Reto", "Peito", &trainer.ID)
	b := createTestExercise(t, db, "Remada Curvada", "Costas", &trainer.ID)

	plan := createTestPlan(t, db, trainer.ID, student.ID, a.ID)

	replacement := []domain.WorkoutExercise{
		{ExerciseID: b.ID, Sets: 4, Reps: "10", RestSeconds: 90},
		{ExerciseID: a.ID, Sets: 3, Reps: "8-12", RestSeconds: 60},
	}
	if err := repo.ReplaceExercises(ctx, plan.ID, replacement); err != nil {
		t.Fatalf("ReplaceExercises failed: %v", err)
	}

	got, err := repo.GetByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Exercises) != 2 {
		t.Fatalf("expected 2 rows after replace, got %d", len(got.Exercises))
	}
	if got.Exercises[0].ExerciseID != b.ID || got.Exercises[1].ExerciseID != a.ID {
		t.Errorf("replacement order not preserved: %+v", got.Exercises)
	}
	if got.Exercises[0].SortOrder != 0 || got.Exercises[1].SortOrder != 1 {
		t.Errorf("sort_order not reassigned from zero: %+v", got.Exercises)
	}
}

func TestWorkoutPlanRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewWorkoutPlanRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	exercise := createTestExercise(t, db, "Supino Reto", "Peito", &trainer.ID)
	plan := createTestPlan(t, db, trainer.ID, student.ID, exercise.ID)

	completedRepo := NewCompletedExerciseRepository(db)
	if err := completedRepo.Create(ctx, &domain.CompletedExercise{
		StudentID:     student.ID,
		WorkoutPlanID: plan.ID,
		ExerciseID:    exercise.ID,
	}); err != nil {
		t.Fatalf("create completion: %v", err)
	}

	if err := repo.Delete(ctx, plan.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, plan.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("plan still present: %v", err)
	}

	var rows int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_exercises WHERE workout_plan_id = ?`, plan.ID).Scan(&rows); err != nil {
		t.Fatalf("count workout_exercises: %v", err)
	}
	if rows != 0 {
		t.Errorf("workout_exercises not cascaded: %d rows", rows)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completed_exercises WHERE workout_plan_id = ?`, plan.ID).Scan(&rows); err != nil {
		t.Fatalf("count completed_exercises: %v", err)
	}
	if rows != 0 {
		t.Errorf("completed_exercises not cascaded: %d rows", rows)
	}
}

func TestWorkoutPlanRepository_UpdateWithExercisesRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewWorkoutPlanRepository(db)

	trainer := createTestUser(t, db, "Carlos", "carlos@fitpro.com", domain.RoleTrainer)
	student := createTestUser(t, db, "Ana", "ana@example.com", domain.RoleStudent)
	a := createTestExercise(t, db, "Supino Reto", "Peito", &trainer.ID)
	b := createTestExercise(t, db, "Remada Curvada", "Costas", &trainer.ID)

	plan := createTestPlan(t, db, trainer.ID, student.ID, a.ID)

	updated := *plan
	updated.Name = "Treino B"
	if err := repo.UpdateWithExercises(ctx, &updated, []domain.WorkoutExercise{
		{ExerciseID: b.ID, Sets: 4, Reps: "10", RestSeconds: 90},
	}); err != nil {
		t.Fatalf("UpdateWithExercises failed: %v", err)
	}
	got, err := repo.GetByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Treino B" || len(got.Exercises) != 1 || got.Exercises[0].ExerciseID != b.ID {
		t.Errorf("combined update not applied: %+v", got)
	}

	// A failing exercise insert rolls the plan update back too.
	updated.Name = "Treino C"
	err = repo.UpdateWithExercises(ctx, &updated, []domain.WorkoutExercise{
		{ExerciseID: "missing-exercise", Sets: 3, Reps: "10", RestSeconds: 60},
	})
	if err == nil {
		t.Fatal("expected foreign key failure")
	}
	got, err = repo.GetByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Treino B" {
		t.Errorf("plan rename survived a failed exercise swap: %q", got.Name)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].ExerciseID != b.ID {
		t.Errorf("exercise rows changed by a failed swap: %+v", got.Exercises)
	}
}
