package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"fitpro/gym-app/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// ErrAlreadySeeded is returned when the database holds users and force was
// not requested.
var ErrAlreadySeeded = errors.New("database already contains users; use force to reseed")

// Seeder populates a demo dataset: one admin, one trainer, four students, an
// exercise catalog, workout plans, sessions, progress history and sample
// notifications. It is operational tooling, never run automatically.
type Seeder struct {
	db *DB
}

// NewSeeder creates a new seeder instance.
func NewSeeder(db *DB) *Seeder {
	return &Seeder{db: db}
}

// Seed inserts the demo dataset. It refuses to act when users already exist
// unless force is set, in which case every table is emptied first, children
// before parents.
func (s *Seeder) Seed(ctx context.Context, force bool) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		if !force {
			return ErrAlreadySeeded
		}
		if err := s.wipe(ctx); err != nil {
			return err
		}
	}

	log.Println("Seeding demo dataset...")

	users := NewUserRepository(s.db)
	exercises := NewExerciseRepository(s.db)
	plans := NewWorkoutPlanRepository(s.db)
	schedule := NewScheduleRepository(s.db)
	progress := NewProgressRepository(s.db)
	notifications := NewNotificationRepository(s.db)

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		return string(h)
	}

	admin := &domain.User{
		Name: "Administrador", Email: "admin@fitpro.com",
		PasswordHash: hash("admin123"), Role: domain.RoleAdmin,
		Avatar: "🛡️", EmailVerified: true,
	}
	cref := "CREF 012345-G/SP"
	trainer := &domain.User{
		Name: "Carlos Silva", Email: "carlos@fitpro.com",
		PasswordHash: hash("treinador123"), Role: domain.RoleTrainer,
		Avatar: "🏋️", Cref: &cref, EmailVerified: true,
	}
	for _, u := range []*domain.User{admin, trainer} {
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	studentNames := []struct {
		name, email, avatar string
	}{
		{"Ana Souza", "ana@fitpro.com", "🏃‍♀️"},
		{"Bruno Costa", "bruno@fitpro.com", "💪"},
		{"Carla Mendes", "carla@fitpro.com", "🧘‍♀️"},
		{"Diego Santos", "diego@fitpro.com", "⚽"},
	}
	students := make([]*domain.User, 0, len(studentNames))
	for _, sn := range studentNames {
		u := &domain.User{
			Name: sn.name, Email: sn.email,
			PasswordHash: hash("aluno123"), Role: domain.RoleStudent,
			Avatar: sn.avatar, EmailVerified: true, TrainerID: &trainer.ID,
		}
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		students = append(students, u)
	}

	catalog := []struct {
		name, group, equipment, difficulty string
	}{
		{"Supino Reto", "Peito", "Barra e banco", domain.DifficultyIntermediate},
		{"Supino Inclinado com Halteres", "Peito", "Halteres e banco", domain.DifficultyIntermediate},
		{"Crucifixo na Máquina", "Peito", "Máquina", domain.DifficultyBeginner},
		{"Flexão de Braço", "Peito/Tríceps", domain.DefaultEquipment, domain.DifficultyBeginner},
		{"Puxada Frontal", "Costas", "Polia alta", domain.DifficultyBeginner},
		{"Remada Curvada", "Costas", "Barra", domain.DifficultyIntermediate},
		{"Barra Fixa", "Costas/Bíceps", "Barra fixa", domain.DifficultyAdvanced},
		{"Agachamento Livre", "Pernas", "Barra", domain.DifficultyIntermediate},
		{"Leg Press 45", "Pernas", "Máquina", domain.DifficultyBeginner},
		{"Cadeira Extensora", "Pernas", "Máquina", domain.DifficultyBeginner},
		{"Stiff", "Pernas/Glúteos", "Barra", domain.DifficultyIntermediate},
		{"Elevação Pélvica", "Glúteos", "Barra e banco", domain.DifficultyBeginner},
		{"Desenvolvimento Militar", "Ombros", "Barra", domain.DifficultyAdvanced},
		{"Elevação Lateral", "Ombros", "Halteres", domain.DifficultyBeginner},
		{"Rosca Direta", "Bíceps", "Barra W", domain.DifficultyBeginner},
		{"Rosca Martelo", "Bíceps", "Halteres", domain.DifficultyBeginner},
		{"Tríceps Testa", "Tríceps", "Barra W", domain.DifficultyIntermediate},
		{"Tríceps na Polia", "Tríceps", "Polia", domain.DifficultyBeginner},
		{"Prancha", "Abdômen", domain.DefaultEquipment, domain.DifficultyBeginner},
		{"Abdominal Infra", "Abdômen", domain.DefaultEquipment, domain.DifficultyIntermediate},
		{"Corrida na Esteira", "Cardio", "Esteira", domain.DifficultyBeginner},
		{"Bicicleta Ergométrica", "Cardio", "Bicicleta", domain.DifficultyBeginner},
	}
	byName := make(map[string]*domain.Exercise, len(catalog))
	for _, c := range catalog {
		e := &domain.Exercise{
			Name: c.name, MuscleGroup: c.group, Equipment: c.equipment,
			Difficulty: c.difficulty, CreatedBy: &trainer.ID,
		}
		if err := exercises.Create(ctx, e); err != nil {
			return fmt.Errorf("seed exercise %s: %w", c.name, err)
		}
		byName[c.name] = e
	}

	planA := &domain.WorkoutPlan{
		Name:      "Treino A - Peito e Tríceps",
		TrainerID: trainer.ID,
		StudentID: students[0].ID,
		DayOfWeek: []string{"Segunda", "Quinta"},
		IsActive:  true,
		Exercises: []domain.WorkoutExercise{
			{ExerciseID: byName["Supino Reto"].ID, Sets: 4, Reps: "8-12", RestSeconds: 90},
			{ExerciseID: byName["Supino Inclinado com Halteres"].ID, Sets: 3, Reps: "10-12", RestSeconds: 60},
			{ExerciseID: byName["Tríceps na Polia"].ID, Sets: 3, Reps: "12-15", RestSeconds: 45},
			{ExerciseID: byName["Prancha"].ID, Sets: 3, Reps: "45s", RestSeconds: 30},
		},
	}
	planB := &domain.WorkoutPlan{
		Name:      "Treino B - Costas e Bíceps",
		TrainerID: trainer.ID,
		StudentID: students[0].ID,
		DayOfWeek: []string{"Terça", "Sexta"},
		IsActive:  true,
		Exercises: []domain.WorkoutExercise{
			{ExerciseID: byName["Puxada Frontal"].ID, Sets: 4, Reps: "10-12", RestSeconds: 90},
			{ExerciseID: byName["Remada Curvada"].ID, Sets: 3, Reps: "8-10", RestSeconds: 90},
			{ExerciseID: byName["Rosca Direta"].ID, Sets: 3, Reps: "10-12", RestSeconds: 60},
		},
	}
	planC := &domain.WorkoutPlan{
		Name:      "Treino Full Body",
		TrainerID: trainer.ID,
		StudentID: students[1].ID,
		DayOfWeek: []string{"Segunda", "Quarta", "Sexta"},
		IsActive:  true,
		Exercises: []domain.WorkoutExercise{
			{ExerciseID: byName["Agachamento Livre"].ID, Sets: 4, Reps: "8-10", RestSeconds: 120},
			{ExerciseID: byName["Supino Reto"].ID, Sets: 3, Reps: "8-12", RestSeconds: 90},
			{ExerciseID: byName["Remada Curvada"].ID, Sets: 3, Reps: "8-10", RestSeconds: 90},
			{ExerciseID: byName["Desenvolvimento Militar"].ID, Sets: 3, Reps: "10", RestSeconds: 90},
			{ExerciseID: byName["Corrida na Esteira"].ID, Sets: 1, Reps: "15min", RestSeconds: 0},
		},
	}
	for _, p := range []*domain.WorkoutPlan{planA, planB, planC} {
		if err := plans.Create(ctx, p); err != nil {
			return fmt.Errorf("seed plan %s: %w", p.Name, err)
		}
	}

	today := time.Now()
	date := func(offsetDays int) string {
		return today.AddDate(0, 0, offsetDays).Format("2006-01-02")
	}
	sessions := []*domain.ScheduleSession{
		{TrainerID: trainer.ID, StudentID: students[0].ID, Date: date(-7), Time: "08:00", Type: domain.SessionTypeAssessment, Status: domain.StatusCompleted},
		{TrainerID: trainer.ID, StudentID: students[0].ID, Date: date(0), Time: "08:00", Type: domain.SessionTypeWorkout, Status: domain.StatusScheduled},
		{TrainerID: trainer.ID, StudentID: students[1].ID, Date: date(0), Time: "10:00", Type: domain.SessionTypeWorkout, Status: domain.StatusScheduled},
		{TrainerID: trainer.ID, StudentID: students[2].ID, Date: date(1), Time: "09:00", Type: domain.SessionTypeConsult, Status: domain.StatusScheduled},
		{TrainerID: trainer.ID, StudentID: students[3].ID, Date: date(-2), Time: "18:00", Type: domain.SessionTypeWorkout, Status: domain.StatusCancelled},
	}
	for _, sess := range sessions {
		if err := schedule.Create(ctx, sess); err != nil {
			return fmt.Errorf("seed session: %w", err)
		}
	}

	fat := func(v float64) *float64 { return &v }
	history := []*domain.StudentProgress{
		{StudentID: students[0].ID, Date: date(-60), Weight: 68.5, BodyFat: fat(27.0), Waist: fat(78)},
		{StudentID: students[0].ID, Date: date(-30), Weight: 66.8, BodyFat: fat(25.5), Waist: fat(76)},
		{StudentID: students[0].ID, Date: date(-7), Weight: 65.4, BodyFat: fat(24.2), Waist: fat(74.5), SessionID: &sessions[0].ID},
		{StudentID: students[1].ID, Date: date(-30), Weight: 82.0, BodyFat: fat(19.0)},
		{StudentID: students[1].ID, Date: date(-2), Weight: 83.1, BodyFat: fat(18.4)},
	}
	for _, h := range history {
		if err := progress.Create(ctx, h); err != nil {
			return fmt.Errorf("seed progress: %w", err)
		}
	}

	welcome := []*domain.Notification{
		{UserID: students[0].ID, Title: "Novo treino disponível", Message: "Carlos Silva criou o treino \"Treino A - Peito e Tríceps\" para você.", Type: domain.NotificationSuccess},
		{UserID: students[1].ID, Title: "Novo treino disponível", Message: "Carlos Silva criou o treino \"Treino Full Body\" para você.", Type: domain.NotificationSuccess},
		{UserID: trainer.ID, Title: "Bem-vindo ao FitPro", Message: "Sua conta de treinador está pronta.", Type: domain.NotificationInfo},
	}
	for _, n := range welcome {
		if err := notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("seed notification: %w", err)
		}
	}

	log.Println("Demo dataset seeded.")
	return nil
}

// wipe empties every table, children before parents.
func (s *Seeder) wipe(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		tables := []string{
			"completed_exercises",
			"workout_exercises",
			"student_progress",
			"notifications",
			"schedule_sessions",
			"workout_plans",
			"exercises",
			"users",
		}
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("wipe %s: %w", table, err)
			}
		}
		return nil
	})
}
