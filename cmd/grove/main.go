package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/grove/internal/cli"
	"github.com/alexanderramin/grove/internal/clock"
	"github.com/alexanderramin/grove/internal/db"
	"github.com/alexanderramin/grove/internal/notify"
	"github.com/alexanderramin/grove/internal/repository"
	"github.com/alexanderramin/grove/internal/reward"
	"github.com/alexanderramin/grove/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.grove/grove.db
	dbPath := os.Getenv("GROVE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".grove", "grove.db")
	}

	cfg := service.Config{}
	if v := os.Getenv("GROVE_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("GROVE_INTERVAL must be a positive number of seconds, got %q", v)
		}
		cfg.Interval = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("GROVE_STALE_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return fmt.Errorf("GROVE_STALE_HOURS must be a positive number of hours, got %q", v)
		}
		cfg.Staleness = time.Duration(hours) * time.Hour
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire store and unit of work
	store := repository.NewSQLiteSessionStore(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Engine diagnostics and reminders are silent unless GROVE_DEBUG is set.
	var observer service.EngineObserver = service.NoopEngineObserver{}
	var reminders service.ReminderScheduler = notify.Noop{}
	if os.Getenv("GROVE_DEBUG") != "" {
		observer = service.NewLogEngineObserver(os.Stderr)
		reminders = notify.NewLogScheduler(os.Stderr)
	}

	profileSvc := service.NewProfileService(store, uow, observer)
	controller := service.NewSessionController(
		clock.System{},
		store,
		reminders,
		reward.NewSystemMinter(),
		profileSvc,
		cfg,
		observer,
	)
	defer controller.Close()

	interval := cfg.Interval
	if interval <= 0 {
		interval = service.DefaultInterval
	}
	app := &cli.App{
		Controller: controller,
		Profile:    profileSvc,
		Interval:   interval,
	}

	// Detect interactive terminal for the live timer view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
