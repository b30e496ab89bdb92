package api

import (
	"net/http"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository/sqlite"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the /api/v1 tree. Auth endpoints are
// public; everything else sits behind the JWT middleware, with role gates per
// group.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	trainerService service.TrainerService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	scheduleService service.ScheduleService,
	progressService service.ProgressService,
	notificationService service.NotificationService,
	adminService service.AdminService,
	seeder *sqlite.Seeder,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	trainerHandler := NewTrainerHandler(trainerService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	scheduleHandler := NewScheduleHandler(scheduleService)
	progressHandler := NewProgressHandler(progressService)
	notificationHandler := NewNotificationHandler(notificationService)
	adminHandler := NewAdminHandler(adminService, seeder)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.GET("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/resend-verification", authHandler.ResendVerification)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Own account ---
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", userHandler.UpdateProfile)
		protected.PUT("/me/password", authHandler.ChangePassword)

		// --- Exercise catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), exerciseHandler.DeleteExercise)
		}

		// --- Workout plans ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListPlans)
			workoutGroup.GET("/:id", workoutHandler.GetPlan)
			workoutGroup.POST("", RoleMiddleware(domain.RoleTrainer), workoutHandler.CreatePlan)
			workoutGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer), workoutHandler.UpdatePlan)
			workoutGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer), workoutHandler.DeletePlan)

			// Student-side plan interaction
			workoutGroup.POST("/:id/toggle", RoleMiddleware(domain.RoleStudent), workoutHandler.ToggleCompletion)
			workoutGroup.POST("/:id/feedback", RoleMiddleware(domain.RoleStudent), workoutHandler.SubmitFeedback)
			workoutGroup.GET("/completed/today", RoleMiddleware(domain.RoleStudent), workoutHandler.CompletedToday)
		}

		// --- Schedule ---
		scheduleGroup := protected.Group("/sessions")
		{
			scheduleGroup.GET("", scheduleHandler.ListSessions)
			scheduleGroup.POST("", RoleMiddleware(domain.RoleTrainer), scheduleHandler.CreateSession)
			scheduleGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), scheduleHandler.UpdateSession)
			scheduleGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), scheduleHandler.DeleteSession)
		}

		// --- Progress history ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", progressHandler.ListProgress)
			progressGroup.POST("", progressHandler.CreateProgress)
			progressGroup.PUT("/:id", progressHandler.UpdateProgress)
			progressGroup.DELETE("/:id", progressHandler.DeleteProgress)
		}

		// --- Notifications ---
		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.ListNotifications)
			notificationGroup.GET("/unread-count", notificationHandler.UnreadCount)
			notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)
			notificationGroup.PUT("/read-all", notificationHandler.MarkAllRead)
			notificationGroup.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		// --- Trainer roster ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.GET("/students", trainerHandler.GetStudents)
			trainerGroup.POST("/students", trainerHandler.AddStudent)
			trainerGroup.PUT("/students/:id", trainerHandler.UpdateStudent)
			trainerGroup.DELETE("/students/:id", trainerHandler.RemoveStudent)
		}

		// --- Admin back-office ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/dashboard", adminHandler.Dashboard)
			adminGroup.POST("/seed", adminHandler.Seed)

			adminGroup.GET("/users", userHandler.ListUsers)
			adminGroup.GET("/users/:id", userHandler.GetUser)
			adminGroup.POST("/users", userHandler.CreateUser)
			adminGroup.PUT("/users/:id", userHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", userHandler.DeleteUser)
		}
	}
}
