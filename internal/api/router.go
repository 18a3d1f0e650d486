package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/smartclassroom/classroom-api/internal/api/handler"
	"github.com/smartclassroom/classroom-api/internal/api/middleware"
	"github.com/smartclassroom/classroom-api/internal/core/domain"
	"github.com/smartclassroom/classroom-api/internal/core/ports"
	"github.com/smartclassroom/classroom-api/internal/core/service"
	"github.com/smartclassroom/classroom-api/internal/core/state"
	"github.com/smartclassroom/classroom-api/internal/infrastructure/store/csvstore"
)

// TutorClient is what the router needs from the external generator: the
// generation call itself plus a readiness ping.
type TutorClient interface {
	ports.TextGenerator
	handler.DependencyPinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The tutor stays behind an interface so tests can stub the external
// collaborator; stores are concrete because the readiness probe pings them.
func NewRouter(
	users *csvstore.UserStore,
	history *csvstore.HistoryStore,
	tutor TutorClient,
	board *state.ClassBoard,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("classroom"))

	// --- Dependencies ---
	tutorGateway := service.NewTutorService(tutor, log)
	classroom := service.NewClassroomService(history, tutorGateway, board, log)
	authService := service.NewAuthService(users, board, jwtSecret, tokenTTL)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(classroom)
	teacherHandler := handler.NewTeacherHandler(classroom)
	authMiddleware := middleware.Auth(jwtSecret, board)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Student routes ---
	student := e.Group("/student", authMiddleware, middleware.RBAC(domain.RoleStudent))
	student.POST("/questions", studentHandler.Ask)
	student.GET("/history", studentHandler.History)
	student.GET("/history/export", studentHandler.ExportTranscript)

	// --- Teacher routes ---
	teacher := e.Group("/teacher", authMiddleware, middleware.RBAC(domain.RoleTeacher))
	teacher.POST("/broadcast", teacherHandler.Broadcast)
	teacher.GET("/activity", teacherHandler.Activity)
	teacher.GET("/activity/export", teacherHandler.ExportActivity)
	teacher.GET("/activity/export.xlsx", teacherHandler.ExportWorkbook)
	teacher.POST("/classes", teacherHandler.StartNewClass)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.DependencyPinger{
		"user_store":    users,
		"history_store": history,
		"tutor":         tutor,
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
