package service_test

import (
	"context"
	"testing"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/service"
)

func TestAdminService_Dashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	adminSvc := service.NewAdminService(e.users, e.exercises, e.plans, e.sessions)

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	student := e.seedStudent(t, "Ana", "ana@example.com", &trainer.ID)
	e.seedExercise(t, "Corrida", "Cardio", nil)
	e.seedExercise(t, "Prancha", "Abdômen", nil)

	today := time.Now().Format("2006-01-02")
	if _, err := e.schedule.Create(ctx, trainer.ID, service.CreateSessionInput{
		StudentID: student.ID, Date: today, Time: "07:30", Duration: 45, Type: domain.SessionTypeWorkout,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if _, err := e.schedule.Create(ctx, trainer.ID, service.CreateSessionInput{
		StudentID: student.ID, Date: "2030-01-15", Time: "07:30", Duration: 45, Type: domain.SessionTypeWorkout,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	dashboard, err := adminSvc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if dashboard.UsersByRole[domain.RoleTrainer] != 1 || dashboard.UsersByRole[domain.RoleStudent] != 1 {
		t.Errorf("UsersByRole = %+v", dashboard.UsersByRole)
	}
	if dashboard.VerifiedUsers != 2 || dashboard.UnverifiedUsers != 0 {
		t.Errorf("verified split = %d/%d", dashboard.VerifiedUsers, dashboard.UnverifiedUsers)
	}
	if dashboard.Exercises != 2 {
		t.Errorf("Exercises = %d", dashboard.Exercises)
	}
	if dashboard.Sessions != 2 {
		t.Errorf("Sessions = %d", dashboard.Sessions)
	}
	if len(dashboard.TodaySessions) != 1 || dashboard.TodaySessions[0].Date != today {
		t.Errorf("TodaySessions = %+v", dashboard.TodaySessions)
	}
	if len(dashboard.RecentUsers) != 2 {
		t.Errorf("RecentUsers has %d entries", len(dashboard.RecentUsers))
	}
}
