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

	"github.com/cmlabs-hris/hris-ledger/internal/config"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-ledger/internal/handler/http"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-ledger/internal/repository/memory"
	"github.com/cmlabs-hris/hris-ledger/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-ledger/internal/service/attendance"
	balanceService "github.com/cmlabs-hris/hris-ledger/internal/service/balance"
	clockService "github.com/cmlabs-hris/hris-ledger/internal/service/clock"
	correctionService "github.com/cmlabs-hris/hris-ledger/internal/service/correction"
	leaveService "github.com/cmlabs-hris/hris-ledger/internal/service/leave"
	"github.com/go-chi/httplog/v3"
)

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	tx          database.Transactor
	employees   employee.EmployeeRepository
	events      clock.EventRepository
	corrections correction.CorrectionRepository
	leaveTypes  leave.LeaveTypeRepository
	requests    leave.LeaveRequestRepository
	balances    balance.BalanceRepository
	close       func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-ledger"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	repos, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	holidays, err := calendar.LoadFile(cfg.Ledger.HolidaysFile)
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}
	slog.Info("Holiday calendar loaded", "file", cfg.Ledger.HolidaysFile, "holidays", holidays.Len())

	ledger := balanceService.NewLedgerService(repos.tx, repos.balances, repos.leaveTypes, repos.employees)
	hub := sse.NewHub()
	leaves := leaveService.NewLeaveService(repos.tx, repos.leaveTypes, repos.requests, repos.employees, ledger, holidays).WithNotifier(hub)
	clocks := clockService.NewClockService(repos.tx, repos.events, repos.employees, loc)
	corrections := correctionService.NewCorrectionService(repos.tx, repos.corrections, repos.employees, clocks, loc)
	attendances := attendanceService.NewAttendanceService(
		repos.events,
		repos.requests,
		repos.employees,
		attendance.Thresholds{FullDay: cfg.Attendance.FullDay, HalfDay: cfg.Attendance.HalfDay},
		loc,
	)

	scheduler := cron.NewScheduler()
	cron.NewAccrualJobs(ledger, repos.leaveTypes, repos.employees, loc).RegisterJobs(scheduler, cfg.Ledger.AccrualInterval)
	scheduler.Start()
	defer scheduler.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		Clock:       appHTTP.NewClockHandler(clocks),
		Leave:       appHTTP.NewLeaveHandler(leaves),
		Balance:     appHTTP.NewBalanceHandler(ledger),
		Attendance:  appHTTP.NewAttendanceHandler(attendances),
		Corrections: appHTTP.NewCorrectionHandler(corrections),
		Events:      appHTTP.NewEventHandler(hub),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Database.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore(cfg.Ledger.LockTimeout)
		store.SeedLeaveTypes()
		if cfg.Database.RosterFile != "" {
			employees, err := fixtures.LoadEmployees(cfg.Database.RosterFile)
			if err != nil {
				return nil, err
			}
			for _, e := range employees {
				store.PutEmployee(e)
			}
			slog.Info("Employee roster loaded", "file", cfg.Database.RosterFile, "employees", len(employees))
		} else {
			slog.Warn("Memory storage without EMPLOYEES_FILE, every employee will be unknown")
		}

		return &repositories{
			tx:          store,
			employees:   memory.NewEmployeeRepository(store),
			events:      memory.NewClockEventRepository(store),
			corrections: memory.NewCorrectionRepository(store),
			leaveTypes:  memory.NewLeaveTypeRepository(store),
			requests:    memory.NewLeaveRequestRepository(store),
			balances:    memory.NewLeaveBalanceRepository(store),
			close:       func() {},
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{LockTimeout: cfg.Ledger.LockTimeout})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}

		return &repositories{
			tx:          postgresql.NewTxManager(db),
			employees:   postgresql.NewEmployeeRepository(db),
			events:      postgresql.NewClockEventRepository(db),
			corrections: postgresql.NewCorrectionRepository(db),
			leaveTypes:  postgresql.NewLeaveTypeRepository(db),
			requests:    postgresql.NewLeaveRequestRepository(db),
			balances:    postgresql.NewLeaveBalanceRepository(db),
			close:       db.Close,
		}, nil
	}
}
