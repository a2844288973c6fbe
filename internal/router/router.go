package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/handler"
	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/config"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-api/pkg/middleware/requestid"
	"github.com/noah-isme/sis-api/pkg/response"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Authenticator middleware.Authenticator
	Metrics       *service.MetricsService

	MetricsHandler        *handler.MetricsHandler
	AuthHandler           *handler.AuthHandler
	EnrollmentHandler     *handler.EnrollmentHandler
	CourseHandler         *handler.CourseHandler
	SubjectHandler        *handler.SubjectHandler
	TermHandler           *handler.TermHandler
	SubjectFacultyHandler *handler.SubjectFacultyHandler
	FacultyHandler        *handler.FacultyHandler
	AdminHandler          *handler.AdminHandler
	StudentHandler        *handler.StudentHandler
	GradeHandler          *handler.GradeHandler
	FacultyPortalHandler  *handler.FacultyPortalHandler
	StudentPortalHandler  *handler.StudentPortalHandler
}

// New builds the gin engine with the global middleware chain and every route.
func New(cfg *config.Config, log *zap.Logger, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		response.Error(c, appErrors.ErrInternal)
	}))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrRouteNotFound)
	})

	r.GET("/health", deps.MetricsHandler.Health)
	r.GET("/ready", deps.MetricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", deps.MetricsHandler.Prometheus)
	}
	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	Register(r.Group(cfg.APIPrefix), deps)
	return r
}

// Register wires the API routes into the group.
func Register(api *gin.RouterGroup, deps Dependencies) {
	authn := deps.Authenticator
	requireAuth := middleware.RequireAuthentication(authn)
	guest := middleware.PreventAuthenticatedAccess(authn)
	optional := middleware.OptionalSession(authn)

	auth := api.Group("/auth")
	auth.POST("/login", guest, deps.AuthHandler.Login)
	auth.POST("/logout", optional, deps.AuthHandler.Logout)
	auth.GET("/check", optional, deps.AuthHandler.Check)
	auth.GET("/session", requireAuth, deps.AuthHandler.Session)
	auth.GET("/me", requireAuth, deps.AuthHandler.Me)

	enroll := api.Group("/enroll")
	enroll.POST("", guest, deps.EnrollmentHandler.Enroll)
	enroll.GET("/courses", deps.EnrollmentHandler.Courses)

	admin := api.Group("/admin", requireAuth, middleware.RequireRole(models.RoleAdmin))
	registerAdmin(admin, deps)

	faculty := api.Group("/faculty", requireAuth, middleware.RequireRole(models.RoleFaculty))
	faculty.GET("/profile", deps.FacultyPortalHandler.Profile)
	faculty.PATCH("/profile", deps.FacultyPortalHandler.UpdateProfile)
	faculty.GET("/subjects", deps.FacultyPortalHandler.Subjects)
	faculty.GET("/classes", deps.FacultyPortalHandler.Classes)
	faculty.GET("/classes/subject/:subjectCode", deps.FacultyPortalHandler.ClassBySubject)
	faculty.GET("/classes/student/:studentId", deps.FacultyPortalHandler.ClassStudent)
	faculty.PATCH("/classes/grade/:enrollmentId", deps.GradeHandler.Upsert)

	student := api.Group("/student", requireAuth, middleware.RequireRole(models.RoleStudent))
	student.GET("/profile", deps.StudentPortalHandler.Profile)
	student.PATCH("/profile", deps.StudentPortalHandler.UpdateProfile)
	student.GET("/enrollments", deps.StudentPortalHandler.Enrollments)
	student.GET("/grades", deps.StudentPortalHandler.Grades)
	student.GET("/grades/export", deps.StudentPortalHandler.ExportGrades)
}

func registerAdmin(admin *gin.RouterGroup, deps Dependencies) {
	courses := admin.Group("/courses")
	courses.GET("", deps.CourseHandler.List)
	courses.POST("", deps.CourseHandler.Create)
	courses.GET("/:id", deps.CourseHandler.Get)
	courses.PUT("/:id", deps.CourseHandler.Update)
	courses.DELETE("/:id", deps.CourseHandler.Delete)
	courses.GET("/:id/subjects", deps.CourseHandler.Subjects)
	courses.POST("/:id/subjects", deps.CourseHandler.AddSubject)
	courses.DELETE("/:id/subjects/:code", deps.CourseHandler.RemoveSubject)

	subjects := admin.Group("/subjects")
	subjects.GET("", deps.SubjectHandler.List)
	subjects.POST("", deps.SubjectHandler.Create)
	subjects.GET("/:code", deps.SubjectHandler.Get)
	subjects.PUT("/:code", deps.SubjectHandler.Update)
	subjects.DELETE("/:code", deps.SubjectHandler.Delete)

	terms := admin.Group("/terms")
	terms.GET("", deps.TermHandler.List)
	terms.POST("", deps.TermHandler.Create)
	terms.GET("/active", deps.TermHandler.GetActive)
	terms.GET("/:id", deps.TermHandler.Get)
	terms.PUT("/:id", deps.TermHandler.Update)
	terms.DELETE("/:id", deps.TermHandler.Delete)
	terms.POST("/:id/activate", deps.TermHandler.Activate)

	assignments := admin.Group("/subject-faculty")
	assignments.GET("", deps.SubjectFacultyHandler.List)
	assignments.POST("", deps.SubjectFacultyHandler.Assign)
	assignments.DELETE("/:id", deps.SubjectFacultyHandler.Unassign)

	faculty := admin.Group("/faculty")
	faculty.GET("", deps.FacultyHandler.List)
	faculty.POST("", deps.FacultyHandler.Create)
	faculty.GET("/:id", deps.FacultyHandler.Get)
	faculty.PATCH("/:id", deps.FacultyHandler.Update)
	faculty.DELETE("/:id", deps.FacultyHandler.Delete)

	admins := admin.Group("/admins")
	admins.GET("", deps.AdminHandler.List)
	admins.POST("", deps.AdminHandler.Create)
	admins.GET("/:id", deps.AdminHandler.Get)
	admins.PATCH("/:id", deps.AdminHandler.Update)
	admins.DELETE("/:id", deps.AdminHandler.Delete)

	students := admin.Group("/students")
	students.GET("", deps.StudentHandler.List)
	students.GET("/:id", deps.StudentHandler.Get)
	students.PATCH("/:id", deps.StudentHandler.Update)
	students.POST("/:id/admit", deps.StudentHandler.Admit)
	students.DELETE("/:id", deps.StudentHandler.Delete)

	enrollments := admin.Group("/enrollments")
	enrollments.GET("", deps.EnrollmentHandler.List)
	enrollments.GET("/:id", deps.EnrollmentHandler.Get)
	enrollments.PATCH("/:id/status", deps.EnrollmentHandler.UpdateStatus)
	enrollments.DELETE("/:id", deps.EnrollmentHandler.Delete)

	grades := admin.Group("/grades")
	grades.GET("", deps.GradeHandler.List)
	grades.DELETE("/:id", deps.GradeHandler.Delete)
}
