package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-api/api/swagger"
	"github.com/noah-isme/sis-api/internal/handler"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/router"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/internal/session"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	"github.com/noah-isme/sis-api/pkg/logger"
	"github.com/noah-isme/sis-api/pkg/password"
	"github.com/noah-isme/sis-api/pkg/validation"
)

// @title Student Information System API
// @version 1.0.0
// @description Enrollment, catalog, grading and portal endpoints.
// @BasePath /api/v1
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, "up"); err != nil {
			return err
		}
		logr.Info("database migrated")
	}

	metrics := service.NewMetricsService()

	var (
		denylist session.Denylist = session.NopDenylist{}
		cache    *service.CacheService
	)
	if cfg.Session.RevocationEnabled || cfg.Cache.Enabled {
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		if cfg.Session.RevocationEnabled {
			denylist = session.NewRedisDenylist(client)
			logr.Info("session revocation enabled")
		}
		if cfg.Cache.Enabled {
			cache = service.NewCacheService(repository.NewCacheRepository(client, "sis:cache:"), metrics, cfg.Cache.TTL, logr, true)
			logr.Info("catalog cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
		}
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return err
	}
	cookie := session.NewCookie(cfg.Session.CookieName, cfg.Session.SecureCookie)
	hasher := password.NewHasher(cfg.Password.BcryptCost)
	validate := validation.New()

	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	termRepo := repository.NewTermRepository(db)
	assignmentRepo := repository.NewSubjectFacultyRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	authService := service.NewAuthService(userRepo, service.AuthProfiles{
		Admins:   adminRepo,
		Faculty:  facultyRepo,
		Students: studentRepo,
	}, hasher, codec, cookie, denylist, validate, metrics, logr)
	enrollmentService := service.NewEnrollmentService(registrationRepo, enrollmentRepo, hasher, validate, metrics, logr)
	courseService := service.NewCourseService(courseRepo, subjectRepo, cache, validate, logr)
	subjectService := service.NewSubjectService(subjectRepo, validate, logr)
	termService := service.NewTermService(termRepo, validate, logr)
	assignmentService := service.NewSubjectFacultyService(assignmentRepo, subjectRepo, facultyRepo, validate, logr)
	facultyService := service.NewFacultyService(facultyRepo, userRepo, hasher, validate, logr)
	adminService := service.NewAdminService(adminRepo, userRepo, hasher, validate, logr)
	studentService := service.NewStudentService(studentRepo, enrollmentRepo, userRepo, validate, logr)
	gradeService := service.NewGradeService(gradeRepo, enrollmentRepo, facultyRepo, validate, logr)
	facultyPortal := service.NewFacultyPortalService(facultyRepo, subjectRepo, enrollmentRepo, studentRepo, validate, logr)
	studentPortal := service.NewStudentPortalService(studentRepo, hasher, enrollmentRepo, validate, logr)

	engine := router.New(cfg, logr, router.Dependencies{
		Authenticator:         authService,
		Metrics:               metrics,
		MetricsHandler:        handler.NewMetricsHandler(metrics, db),
		AuthHandler:           handler.NewAuthHandler(authService),
		EnrollmentHandler:     handler.NewEnrollmentHandler(enrollmentService, courseService),
		CourseHandler:         handler.NewCourseHandler(courseService),
		SubjectHandler:        handler.NewSubjectHandler(subjectService),
		TermHandler:           handler.NewTermHandler(termService),
		SubjectFacultyHandler: handler.NewSubjectFacultyHandler(assignmentService),
		FacultyHandler:        handler.NewFacultyHandler(facultyService),
		AdminHandler:          handler.NewAdminHandler(adminService),
		StudentHandler:        handler.NewStudentHandler(studentService),
		GradeHandler:          handler.NewGradeHandler(gradeService),
		FacultyPortalHandler:  handler.NewFacultyPortalHandler(facultyPortal),
		StudentPortalHandler:  handler.NewStudentPortalHandler(studentPortal),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}
