package service

import (
	"context"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
)

// Dashboard aggregates the back-office landing numbers.
type Dashboard struct {
	UsersByRole     map[domain.Role]int      `json:"usersByRole"`
	VerifiedUsers   int                      `json:"verifiedUsers"`
	UnverifiedUsers int                      `json:"unverifiedUsers"`
	Exercises       int                      `json:"exercises"`
	WorkoutPlans    int                      `json:"workoutPlans"`
	Sessions        int                      `json:"sessions"`
	RecentUsers     []domain.User            `json:"recentUsers"`
	TodaySessions   []domain.ScheduleSession `json:"todaySessions"`
}

// AdminService produces the back-office dashboard.
type AdminService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type adminService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	planRepo     repository.WorkoutPlanRepository
	scheduleRepo repository.ScheduleRepository
}

// NewAdminService creates a new instance of adminService.
func NewAdminService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	planRepo repository.WorkoutPlanRepository,
	scheduleRepo repository.ScheduleRepository,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		planRepo:     planRepo,
		scheduleRepo: scheduleRepo,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}

	var err error
	if dashboard.UsersByRole, err = s.userRepo.CountByRole(ctx); err != nil {
		return nil, err
	}
	if dashboard.VerifiedUsers, dashboard.UnverifiedUsers, err = s.userRepo.CountVerified(ctx); err != nil {
		return nil, err
	}
	if dashboard.Exercises, err = s.exerciseRepo.Count(ctx); err != nil {
		return nil, err
	}
	if dashboard.WorkoutPlans, err = s.planRepo.Count(ctx); err != nil {
		return nil, err
	}
	if dashboard.Sessions, err = s.scheduleRepo.Count(ctx); err != nil {
		return nil, err
	}
	if dashboard.RecentUsers, err = s.userRepo.Recent(ctx, 10); err != nil {
		return nil, err
	}
	today := time.Now().Format("2006-01-02")
	if dashboard.TodaySessions, err = s.scheduleRepo.ListOnDate(ctx, today); err != nil {
		return nil, err
	}
	return dashboard, nil
}
