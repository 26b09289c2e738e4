package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/gantt/internal/cli"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --db has to be known before the database is opened, so it is read
	// ahead of cobra. Everything else is left for the root command.
	pre := pflag.NewFlagSet("gantt", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	pre.SetOutput(io.Discard)
	dbPath := pre.String(cli.DBFlag, "", "")
	_ = pre.Parse(os.Args[1:])
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	revisionRepo := repository.NewSQLiteRevisionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	cache, err := service.NewTaskCache(cfg.CacheSize)
	if err != nil {
		return err
	}

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr, cfg.LogLevel))
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	chartSettings := service.ChartSettings{
		ColumnWidth:   cfg.ColumnWidth,
		WindowPadDays: cfg.WindowPadDays,
		Layout: geometry.Layout{
			RowHeight: cfg.RowHeight,
			BarHeight: cfg.BarHeight,
			Stub:      geometry.DefaultLayout().Stub,
		},
	}

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo, taskRepo, uow, cache, observers...),
		Tasks:    service.NewTaskService(projectRepo, taskRepo, uow, cache, observers...),
		Plans:    service.NewPlanService(projectRepo, taskRepo, revisionRepo, uow, cache, observers...),
		Charts:   service.NewChartService(projectRepo, taskRepo, cache, chartSettings, logger),
		Import:   service.NewImportService(uow, observers...),
		Settings: cli.Settings{
			Currency:   cfg.Currency,
			CellWidth:  cfg.CellWidth,
			LabelWidth: cfg.LabelWidth,
		},
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
