package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
	"fitpro/gym-app/internal/repository/sqlite"
	"fitpro/gym-app/internal/service"
)

// sentMail is one message captured by the mailer stub.
type sentMail struct {
	To      string
	Subject string
	Body    string
}

// mailerStub records outgoing mail instead of sending it.
type mailerStub struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mailerStub) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *mailerStub) sentTo(to string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.To == to {
			out = append(out, s)
		}
	}
	return out
}

// env wires every service against a migrated temp-file database.
type env struct {
	db     *sqlite.DB
	mailer *mailerStub

	users         repository.UserRepository
	exercises     repository.ExerciseRepository
	plans         repository.WorkoutPlanRepository
	completed     repository.CompletedExerciseRepository
	sessions      repository.ScheduleRepository
	progress      repository.ProgressRepository
	notifications repository.NotificationRepository

	auth            service.AuthService
	userService     service.UserService
	trainer         service.TrainerService
	exerciseSvc     service.ExerciseService
	workout         service.WorkoutService
	schedule        service.ScheduleService
	progressSvc     service.ProgressService
	notificationSvc service.NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "fitpro_test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	e := &env{db: db, mailer: &mailerStub{}}
	e.users = sqlite.NewUserRepository(db)
	e.exercises = sqlite.NewExerciseRepository(db)
	e.plans = sqlite.NewWorkoutPlanRepository(db)
	e.completed = sqlite.NewCompletedExerciseRepository(db)
	e.sessions = sqlite.NewScheduleRepository(db)
	e.progress = sqlite.NewProgressRepository(db)
	e.notifications = sqlite.NewNotificationRepository(db)

	e.auth = service.NewAuthService(e.users, e.mailer, "test-secret", 24*time.Hour)
	e.userService = service.NewUserService(e.users)
	e.trainer = service.NewTrainerService(e.users, e.notifications, e.mailer)
	e.exerciseSvc = service.NewExerciseService(e.exercises)
	e.workout = service.NewWorkoutService(e.plans, e.users, e.exercises, e.completed, e.notifications)
	e.schedule = service.NewScheduleService(e.sessions, e.users, e.notifications)
	e.progressSvc = service.NewProgressService(e.progress, e.users)
	e.notificationSvc = service.NewNotificationService(e.notifications)
	return e
}

// seedTrainer creates a verified trainer account directly through the repo.
func (e *env) seedTrainer(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name: name, Email: email, PasswordHash: "hash",
		Role: domain.RoleTrainer, EmailVerified: true,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed trainer: %v", err)
	}
	return user
}

// seedStudent creates a verified student, optionally linked to a trainer.
func (e *env) seedStudent(t *testing.T, name, email string, trainerID *string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name: name, Email: email, PasswordHash: "hash",
		Role: domain.RoleStudent, EmailVerified: true, TrainerID: trainerID,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return user
}

func (e *env) seedExercise(t *testing.T, name, group string, createdBy *string) *domain.Exercise {
	t.Helper()
	exercise := &domain.Exercise{
		Name: name, MuscleGroup: group,
		Equipment: domain.DefaultEquipment, Difficulty: domain.DifficultyBeginner,
		CreatedBy: createdBy,
	}
	if err := e.exercises.Create(context.Background(), exercise); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return exercise
}

func strPtr(s string) *string { return &s }
