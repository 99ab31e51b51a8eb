package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/config"
	appHTTP "github.com/pontoagent/ponto-backend-go/internal/handler/http"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/cache"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/cron"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/database"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/storage"
	"github.com/pontoagent/ponto-backend-go/internal/repository/postgresql"
	"github.com/pontoagent/ponto-backend-go/internal/service/file"
	holidayService "github.com/pontoagent/ponto-backend-go/internal/service/holiday"
	justificationService "github.com/pontoagent/ponto-backend-go/internal/service/justification"
	punchService "github.com/pontoagent/ponto-backend-go/internal/service/punch"
	timesheetService "github.com/pontoagent/ponto-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "ponto-backend"),
		slog.String("env", cfg.App.Env),
	))

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Error connecting to redis: ", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		slog.Info("Redis not configured, mirror cache disabled")
	}
	mirrorCache := cache.NewRedisCache(redisClient, cfg.Redis.Prefix, cfg.Redis.TTL)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileService := file.NewFileService(fileStorage)

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	justificationRepo := postgresql.NewJustificationRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	dayRecordRepo := postgresql.NewDayRecordRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	timesheetSvc := timesheetService.NewTimesheetService(
		employeeRepo,
		punchRepo,
		justificationRepo,
		holidayRepo,
		dayRecordRepo,
		mirrorCache,
		timesheetService.Config{
			Rules: timesheetService.Rules{
				DailyTargetMinutes: cfg.Timesheet.DailyTargetMinutes,
				MinBreakMinutes:    cfg.Timesheet.MinBreakMinutes,
				Location:           location,
			},
			MaxPeriodDays:    cfg.Timesheet.MaxPeriodDays,
			BatchConcurrency: cfg.Timesheet.BatchConcurrency,
		},
	)
	punchSvc := punchService.NewPunchService(transactor, punchRepo, employeeRepo, mirrorCache, location)
	justificationSvc := justificationService.NewJustificationService(justificationRepo, employeeRepo, fileService, mirrorCache, timesheetSvc)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, mirrorCache)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		appHTTP.NewTimesheetHandler(timesheetSvc, location),
		appHTTP.NewPunchHandler(punchSvc),
		appHTTP.NewJustificationHandler(justificationSvc),
		appHTTP.NewHolidayHandler(holidaySvc),
	)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewTimesheetJobs(timesheetSvc, location, cfg.Cron.SnapshotInterval).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", cfg.App.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
