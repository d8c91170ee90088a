package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/akademiklabs/inspection-api/api/swagger"
	"github.com/akademiklabs/inspection-api/internal/handler"
	"github.com/akademiklabs/inspection-api/internal/middleware"
	"github.com/akademiklabs/inspection-api/internal/repository"
	"github.com/akademiklabs/inspection-api/internal/service"
	"github.com/akademiklabs/inspection-api/pkg/cache"
	"github.com/akademiklabs/inspection-api/pkg/config"
	"github.com/akademiklabs/inspection-api/pkg/database"
	"github.com/akademiklabs/inspection-api/pkg/export"
	"github.com/akademiklabs/inspection-api/pkg/logger"
	corsmiddleware "github.com/akademiklabs/inspection-api/pkg/middleware/cors"
	reqidmiddleware "github.com/akademiklabs/inspection-api/pkg/middleware/requestid"
)

// @title Inspection Coordination API
// @version 1.0.0
// @description Classroom lesson inspection scheduling and reporting
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Eligibility.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, eligibility cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	eligibilitySvc := service.NewEligibilityService(teacherRepo, lessonRepo, teamRepo, cacheRepo, cfg.Eligibility.CacheTTL, metricsSvc, logr)
	inspectionSvc := service.NewInspectionService(inspectionRepo, scheduleRepo, lessonRepo, reportRepo, eligibilitySvc, validate, logr)
	reportSvc := service.NewReportService(reportRepo, inspectionRepo, lessonRepo, subjectRepo, teacherRepo, teamRepo, validate, logr)
	teamSvc := service.NewTeamService(teamRepo, teacherRepo, eligibilitySvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, inspectionRepo, lessonRepo, subjectRepo, teamRepo, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, logr)
	exportSvc := service.NewExportService(reportSvc, scheduleSvc, logr, export.NewCSVExporter(), export.NewPDFExporter())
	authSvc := service.NewAuthService(adminRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handler.NewMetricsHandler(metricsSvc).Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, routeDeps{
		auth:        handler.NewAuthHandler(authSvc),
		teachers:    handler.NewTeacherHandler(teacherSvc),
		teams:       handler.NewTeamHandler(teamSvc),
		schedules:   handler.NewScheduleHandler(scheduleSvc, exportSvc),
		eligibility: handler.NewEligibilityHandler(eligibilitySvc),
		inspections: handler.NewInspectionHandler(inspectionSvc, reportSvc),
		reports:     handler.NewReportHandler(reportSvc, exportSvc),
		authSvc:     authSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

type routeDeps struct {
	auth        *handler.AuthHandler
	teachers    *handler.TeacherHandler
	teams       *handler.TeamHandler
	schedules   *handler.ScheduleHandler
	eligibility *handler.EligibilityHandler
	inspections *handler.InspectionHandler
	reports     *handler.ReportHandler
	authSvc     *service.AuthService
}

func registerRoutes(r *gin.Engine, cfg *config.Config, deps routeDeps) {
	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", deps.auth.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(deps.authSvc))

	protected.GET("/auth/me", deps.auth.Me)

	protected.GET("/teachers", deps.teachers.List)
	protected.GET("/teachers/:teacherId", deps.teachers.Get)
	protected.GET("/teachers/:teacherId/subjects", deps.schedules.TeacherSubjects)
	protected.GET("/teachers/:teacherId/subjects/:subjectId/lessons", deps.schedules.TeacherSubjectLessons)
	protected.GET("/teachers/:teacherId/lessons/:lessonId/eligible-teams", deps.eligibility.EligibleTeams)

	protected.GET("/teams", deps.teams.List)
	protected.POST("/teams", deps.teams.Create)
	protected.GET("/teams/:id", deps.teams.Get)
	protected.PUT("/teams/:id/members/:teacherId", deps.teams.AddMember)
	protected.DELETE("/teams/:id/members/:teacherId", deps.teams.RemoveMember)

	protected.GET("/semesters", deps.schedules.Semesters)
	protected.GET("/semesters/:semester/schedule", deps.schedules.Schedule)
	protected.GET("/semesters/:semester/lessons", deps.schedules.Lessons)
	if cfg.Exports.Enabled {
		protected.GET("/semesters/:semester/schedule/csv", deps.schedules.ScheduleCSV)
	}

	protected.GET("/inspections", deps.inspections.List)
	protected.POST("/inspections", deps.inspections.Create)
	protected.GET("/inspections/:id", deps.inspections.Get)
	protected.PATCH("/inspections/:id", deps.inspections.Update)
	protected.DELETE("/inspections/:id", deps.inspections.Delete)

	protected.GET("/inspections/:id/report", deps.reports.Get)
	protected.POST("/inspections/:id/report", deps.reports.Create)
	protected.PATCH("/inspections/:id/report", deps.reports.Update)
	if cfg.Exports.Enabled {
		protected.GET("/inspections/:id/report/pdf", deps.reports.ExportPDF)
	}
}
