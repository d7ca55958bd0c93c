package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pulsefit/pulsefit-backend/internal/handlers"
	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/middleware"
	"github.com/pulsefit/pulsefit-backend/internal/services"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

type RouterDeps struct {
	Auth        *handlers.AuthHandler
	Users       *handlers.UserHandler
	Workouts    *handlers.WorkoutHandler
	Healthcheck *handlers.HealthcheckHandler
	AuthService services.AuthService
	Log         *logger.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	mode := utils.GetEnv("GIN_MODE", gin.DebugMode, deps.Log)
	gin.SetMode(mode)

	router := gin.New()
	router.Use(gin.Recovery())

	origins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "*", deps.Log)
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthcheck", deps.Healthcheck.Healthcheck)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", deps.Auth.Signup)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/logout", deps.Auth.Logout)
	}

	verified := api.Group("")
	verified.Use(middleware.VerifyToken(deps.AuthService, deps.Log))

	user := verified.Group("/user")
	{
		user.POST("/onboard", deps.Users.OnboardUser)
		user.PUT("/onboard", deps.Users.EditOnboarding)
		user.GET("/my-profile", deps.Users.MyProfile)
	}
	api.GET("/user/all-equipment", deps.Users.AllEquipment)
	api.GET("/user/all-exercises", deps.Users.AllExercises)

	workout := verified.Group("/workout")
	{
		workout.POST("/generate", deps.Workouts.Generate)
		workout.POST("/regenerate", deps.Workouts.Regenerate)
		workout.GET("/today", deps.Workouts.TodayWorkout)
		workout.GET("/date", deps.Workouts.WorkoutByDate)
		workout.GET("/week-summary", deps.Workouts.WeekSummaries)
		workout.GET("/plan", deps.Workouts.ActivePlan)
		workout.POST("/:id/complete", deps.Workouts.CompleteWorkout)
		workout.POST("/set/:id/complete", deps.Workouts.CompleteSet)
	}

	return router
}
