package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitpro/gym-app/internal/api"
	"fitpro/gym-app/internal/config"
	"fitpro/gym-app/internal/mail"
	"fitpro/gym-app/internal/repository/sqlite"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting FitPro server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database ---
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("FATAL: Could not open database %q: %v", cfg.Database.Path, err)
	}
	defer func() {
		log.Println("Closing database...")
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 1*time.Minute)
	if err := db.Migrate(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatalf("FATAL: Database migration failed: %v", err)
	}
	cancelMigrate()
	log.Println("Database ready.")

	// --- Repositories ---
	log.Println("Initializing repositories...")
	userRepo := sqlite.NewUserRepository(db)
	exerciseRepo := sqlite.NewExerciseRepository(db)
	planRepo := sqlite.NewWorkoutPlanRepository(db)
	completedRepo := sqlite.NewCompletedExerciseRepository(db)
	scheduleRepo := sqlite.NewScheduleRepository(db)
	progressRepo := sqlite.NewProgressRepository(db)
	notificationRepo := sqlite.NewNotificationRepository(db)
	seeder := sqlite.NewSeeder(db)

	// --- Services ---
	log.Println("Initializing services...")
	mailer := mail.NewSMTPMailer(cfg.SMTP)
	authService := service.NewAuthService(userRepo, mailer, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	trainerService := service.NewTrainerService(userRepo, notificationRepo, mailer)
	exerciseService := service.NewExerciseService(exerciseRepo)
	workoutService := service.NewWorkoutService(planRepo, userRepo, exerciseRepo, completedRepo, notificationRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, userRepo, notificationRepo)
	progressService := service.NewProgressService(progressRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	adminService := service.NewAdminService(userRepo, exerciseRepo, planRepo, scheduleRepo)

	// --- Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		userService,
		trainerService,
		exerciseService,
		workoutService,
		scheduleService,
		progressService,
		notificationService,
		adminService,
		seeder,
	)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
