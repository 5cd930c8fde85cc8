package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/drivedesk/drivedesk-api/api/swagger"
	"github.com/drivedesk/drivedesk-api/internal/handler"
	"github.com/drivedesk/drivedesk-api/internal/holiday"
	"github.com/drivedesk/drivedesk-api/internal/middleware"
	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/repository"
	"github.com/drivedesk/drivedesk-api/internal/service"
	"github.com/drivedesk/drivedesk-api/pkg/cache"
	"github.com/drivedesk/drivedesk-api/pkg/config"
	"github.com/drivedesk/drivedesk-api/pkg/database"
	"github.com/drivedesk/drivedesk-api/pkg/logger"
	corsmiddleware "github.com/drivedesk/drivedesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/drivedesk/drivedesk-api/pkg/middleware/requestid"
)

// @title DriveDesk API
// @version 1.0.0
// @description Driving school lesson scheduling and availability API
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, holiday feed runs uncached", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	blockedSlotRepo := repository.NewBlockedSlotRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	holidayClient := holiday.New(cfg.Holiday, redisClient, logr)
	holidayClient.SetMetrics(metricsService)

	// Services.
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "drivedesk-api",
		SingleSession:      cfg.JWT.SingleSession,
	})
	userService := service.NewUserService(userRepo, validate, logr)
	lessonService := service.NewLessonService(lessonRepo, logr)
	blockedSlotService := service.NewBlockedSlotService(blockedSlotRepo, validate, logr)
	settingsService := service.NewSettingsService(settingsRepo, validate, logr)
	availabilityService := service.NewAvailabilityService(lessonRepo, blockedSlotRepo, settingsRepo, holidayClient, cfg.Booking, logr)
	bookingService := service.NewBookingService(availabilityService, lessonRepo, settingsRepo, logr)
	exportService := service.NewExportService(lessonRepo, blockedSlotRepo, userRepo, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	blockedSlotHandler := handler.NewBlockedSlotHandler(blockedSlotService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	bookingHandler := handler.NewBookingHandler(bookingService, metricsService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authService))

	admin := string(models.RoleAdmin)
	instructor := string(models.RoleInstructor)
	student := string(models.RoleStudent)

	users := secured.Group("/users")
	{
		users.GET("", middleware.RBAC(admin, instructor), userHandler.List)
		users.GET("/:id", middleware.RBAC(admin, instructor, "SELF"), userHandler.Get)
		users.POST("", middleware.RBAC(admin), userHandler.Create)
		users.PUT("/:id", middleware.RBAC(admin), userHandler.Update)
		users.DELETE("/:id", middleware.RBAC(admin), userHandler.Delete)
	}

	lessons := secured.Group("/lessons")
	{
		lessons.GET("", lessonHandler.List)
		lessons.GET("/:id", lessonHandler.Get)
		lessons.PATCH("/:id/confirm", middleware.RBAC(admin, instructor), lessonHandler.Confirm)
		lessons.PATCH("/:id/decline", middleware.RBAC(admin, instructor), lessonHandler.Decline)
		lessons.PATCH("/:id/cancel", lessonHandler.Cancel)
	}

	blockedSlots := secured.Group("/blocked-slots")
	blockedSlots.Use(middleware.RBAC(admin, instructor))
	{
		blockedSlots.GET("", blockedSlotHandler.List)
		blockedSlots.POST("", blockedSlotHandler.Create)
		blockedSlots.PUT("/:id", blockedSlotHandler.Update)
		blockedSlots.DELETE("/:id", blockedSlotHandler.Delete)
	}

	availability := secured.Group("/availability")
	{
		availability.GET("/disabled-days", availabilityHandler.DisabledDays)
		availability.GET("/slots", availabilityHandler.Slots)
		availability.POST("/check", availabilityHandler.Check)
	}

	secured.POST("/bookings", middleware.RBAC(admin, instructor, student), bookingHandler.Request)

	secured.GET("/instructors/:id/settings", middleware.RBAC(admin, instructor, "SELF"), settingsHandler.GetInstructorSettings)
	secured.PUT("/instructors/:id/settings", middleware.RBAC(admin), settingsHandler.PutInstructorSettings)
	secured.GET("/students/:id/profile", middleware.RBAC(admin, instructor, "SELF"), settingsHandler.GetStudentProfile)
	secured.PUT("/students/:id/profile", middleware.RBAC(admin, instructor), settingsHandler.PutStudentProfile)

	if cfg.Exports.Enabled {
		secured.GET("/exports/day-plan", middleware.RBAC(admin, instructor), exportHandler.DayPlan)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
