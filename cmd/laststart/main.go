package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/laststart/internal/cli"
	"github.com/alexanderramin/laststart/internal/config"
	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/logging"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/alexanderramin/laststart/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file is optional; LASTSTART_* env vars override it.
	cfg, err := config.Load(os.Getenv("LASTSTART_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Setup(cfg.Logging, os.Stderr)

	defaults, err := cfg.Calendar.Profile()
	if err != nil {
		return fmt.Errorf("calendar config: %w", err)
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug().Str("path", cfg.DB.Path).Msg("database ready")

	// Wire repositories
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	profileRepo := repository.NewSQLiteUserProfileRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	promObserver, err := service.NewPromUseCaseObserver(nil)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(logging.Component(logger, "service")),
		promObserver,
	}

	// Wire services
	calendarSvc := service.NewCalendarService(profileRepo, *defaults)
	sessionSvc := service.NewSessionService(sessionRepo, uow, observers...)

	app := &cli.App{
		WorkItems:   service.NewWorkItemService(workItemRepo, uow),
		Sessions:    sessionSvc,
		Calendar:    calendarSvc,
		LatestStart: service.NewLatestStartService(workItemRepo, calendarSvc, cfg.Scheduling.Options(), observers...),
		LogSession:  sessionSvc,
		Logger:      logger,

		Plain:           !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
		RefreshInterval: cfg.Scheduling.RefreshInterval(),
		MetricsAddr:     cfg.Metrics.Addr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
