package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hrms-core-go/internal/handler/http"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrms-core-go/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/hrms-core-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hrms-core-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hrms-core-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/hrms-core-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logLevel, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})).With(
		slog.String("app", "hrms-core"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.ApplySchema(ctx, db); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
		slog.Info("Database schema applied")
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryStructureRepo := postgresql.NewSalaryStructureRepository(db)
	payrollRunRepo := postgresql.NewPayrollRunRepository(db)
	payrollSlipRepo := postgresql.NewPayrollSlipRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leavePlanRepo := postgresql.NewLeavePlanRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveApplicationRepo := postgresql.NewLeaveApplicationRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	workingDays, err := payrollService.NewWorkingDaysPolicy(cfg.Payroll.WorkingDaysPolicy, cfg.Payroll.FixedWorkingDays)
	if err != nil {
		return err
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollSvc := payrollService.NewPayrollService(
		salaryStructureRepo,
		payrollRunRepo,
		payrollSlipRepo,
		employeeRepo,
		payrollService.NewAttendanceAggregator(attendanceRepo, workingDays),
		payrollService.NewCalculator(cfg.Payroll.ClampAttendance),
		cfg.Payroll.BatchConcurrency,
	)
	leaveSvc := leaveService.NewLeaveService(
		transactor,
		leaveTypeRepo,
		leavePlanRepo,
		leaveBalanceRepo,
		leaveApplicationRepo,
		employeeRepo,
	)

	reportSvc := reportService.NewReportService(reportRepo)

	notifSvc := notificationService.NewNotificationService(notificationRepo, sse.NewHub(), notificationService.Config{
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
	})
	// Flushes pending notifications before db.Close.
	defer notifSvc.Stop()

	scheduler := cron.NewScheduler()
	cron.NewLeaveJobs(leaveSvc, cfg.Leave.RolloverInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        cfg.App.Version,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       logLevel,
		},
		JWTService,
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewLeaveHandler(notificationService.NewLeaveNotifier(leaveSvc, notifSvc)),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewNotificationHandler(notifSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
