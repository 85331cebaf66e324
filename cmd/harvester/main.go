package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"news_harvester/internal/config"
	"news_harvester/internal/publisher"
	"news_harvester/internal/scheduler"
	"news_harvester/internal/service"
	"news_harvester/internal/source/cheesecakelabs"
	"news_harvester/internal/source/engadget"
	"news_harvester/internal/source/mashable"
	"news_harvester/internal/source/techcrunch"
	"news_harvester/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Publishing is optional: no broker URL means harvest-only mode.
	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	outletStore := postgres.NewOutletStore(db)
	authorStore := postgres.NewAuthorStore(db)
	categoryStore := postgres.NewCategoryStore(db)
	articleStore := postgres.NewArticleStore(db)
	txManager := postgres.NewTransactionManager(db)
	checker := postgres.NewChecker(articleStore, authorStore)

	techcrunchSource := techcrunch.New(techcrunch.Config{
		FeedURL:   cfg.Harvest.TechCrunch.FeedURL,
		BaseURL:   cfg.Harvest.TechCrunch.BaseURL,
		Timeout:   cfg.Harvest.Timeout,
		UserAgent: cfg.Harvest.UserAgent,
	}, checker, logger)

	engadgetSource := engadget.New(engadget.Config{
		FeedURL:   cfg.Harvest.Engadget.FeedURL,
		BaseURL:   cfg.Harvest.Engadget.BaseURL,
		Timeout:   cfg.Harvest.Timeout,
		UserAgent: cfg.Harvest.UserAgent,
	}, checker, logger)

	mashableSource := mashable.New(mashable.Config{
		FeedURL:   cfg.Harvest.Mashable.FeedURL,
		BaseURL:   cfg.Harvest.Mashable.BaseURL,
		Timeout:   cfg.Harvest.Timeout,
		UserAgent: cfg.Harvest.UserAgent,
	}, checker, logger)

	cheesecakeSource := cheesecakelabs.New(cheesecakelabs.Config{
		FeedURL:   cfg.Harvest.CheesecakeLabs.FeedURL,
		Timeout:   cfg.Harvest.Timeout,
		UserAgent: cfg.Harvest.UserAgent,
	}, checker, logger)

	newService := func(src service.Source) *service.HarvestService {
		return service.NewHarvestService(
			src,
			outletStore,
			authorStore,
			categoryStore,
			articleStore,
			txManager,
			pub,
			logger,
		)
	}

	jobs := []scheduler.Job{
		{Name: "techcrunch", Harvester: newService(techcrunchSource), Interval: cfg.Harvest.TechCrunch.Interval},
		{Name: "engadget", Harvester: newService(engadgetSource), Interval: cfg.Harvest.Engadget.Interval},
		{Name: "mashable", Harvester: newService(mashableSource), Interval: cfg.Harvest.Mashable.Interval},
		{Name: "cheesecakelabs", Harvester: newService(cheesecakeSource), Interval: cfg.Harvest.CheesecakeLabs.Interval},
	}

	sched := scheduler.NewScheduler(jobs, cfg.Harvest.RunTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting news harvester", "outlets", len(jobs))

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
