package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/pontoagent/ponto-backend-go/internal/config"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/pontoagent/ponto-backend-go/internal/handler/http/middleware"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
)

func NewRouter(
	appCfg config.AppConfig,
	JWTService jwt.Service,
	timesheetHandler TimesheetHandler,
	punchHandler PunchHandler,
	justificationHandler JustificationHandler,
	holidayHandler HolidayHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appCfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ponto-backend"),
		slog.String("version", appCfg.Version),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  requestLogLevel(appCfg.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/my", timesheetHandler.GetMyMirror)
				r.Get("/{employeeID}", timesheetHandler.GetMirror)

				r.With(middleware.RequireManager).Get("/", timesheetHandler.BatchMirror)
				r.With(middleware.RequirePermission(user.PermissionTimesheetSnapshot)).
					Post("/snapshot", timesheetHandler.Snapshot)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDashboardView))
				r.Get("/stats", timesheetHandler.Stats)
			})

			r.Route("/punches", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPunchViewAll)).
					Get("/", punchHandler.List)
				r.With(middleware.RequirePermission(user.PermissionPunchImport)).
					Post("/import", punchHandler.Import)
			})

			r.Route("/justifications", func(r chi.Router) {
				r.Get("/", justificationHandler.List)
				r.With(middleware.RequirePermission(user.PermissionJustificationCreate)).
					Post("/", justificationHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", justificationHandler.Get)
					r.Delete("/", justificationHandler.Delete)
					r.Get("/attachment", justificationHandler.Attachment)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionJustificationReview))
						r.Post("/approve", justificationHandler.Approve)
						r.Post("/reject", justificationHandler.Reject)
					})
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", holidayHandler.List)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", holidayHandler.Create)
					r.Delete("/{id}", holidayHandler.Delete)
				})
			})
		})
	})

	return r
}

func requestLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
