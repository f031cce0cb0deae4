// Command tracker ingests a tracked account's posts and serves the derived
// activity statistics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"tweet_tracker/internal/analytics"
	"tweet_tracker/internal/classify"
	"tweet_tracker/internal/config"
	"tweet_tracker/internal/publisher"
	"tweet_tracker/internal/scheduler"
	"tweet_tracker/internal/server"
	"tweet_tracker/internal/service"
	"tweet_tracker/internal/source/twitterio"
	"tweet_tracker/internal/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Track a public figure's posting activity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newPollCmd(&configPath))
	root.AddCommand(newResetCmd(&configPath))

	return root
}

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sqlx.DB
	posts     *postgres.PostStore
	pollState *postgres.PollStateStore
	poller    *service.PollService
	stats     *analytics.Service
	rabbit    *publisher.RabbitMQ
}

func (a *app) close() {
	if a.rabbit != nil {
		_ = a.rabbit.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database")

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		posts:     postgres.NewPostStore(db),
		pollState: postgres.NewPollStateStore(db),
	}

	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.rabbit = rabbit
		pub = rabbit
	}

	feed, err := twitterio.New(cfg.Twitter, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	a.poller = service.NewPollService(
		feed,
		a.posts,
		a.pollState,
		pub,
		classify.ForName(cfg.Poll.Classifier),
		logger,
		cfg.Poll,
		time.Now,
	)
	a.stats = analytics.NewService(a.posts, logger, time.Now)

	return a, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the poll scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				sig := <-sigCh
				a.logger.Info("received shutdown signal", "signal", sig)
				cancel()
			}()

			sched := scheduler.NewScheduler(a.poller, a.cfg.Poll.Interval, a.logger)
			go func() {
				if err := sched.Start(ctx); err != nil && err != context.Canceled {
					a.logger.Error("scheduler error", "error", err)
				}
			}()

			srv := server.New(a.poller, a.stats, a.posts, a.pollState, a.cfg.Poll.CronSecret, a.logger)
			a.logger.Info("starting http server", "addr", a.cfg.Server.ListenAddr)
			return srv.ListenAndServe(ctx, a.cfg.Server.ListenAddr)
		},
	}
}

func newPollCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run the ingestion pipeline once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := a.poller.Poll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"fetched=%d upserted=%d modified=%d pages=%d published=%d backfill=%t\n",
				stats.Fetched, stats.Upserted, stats.Modified,
				stats.PagesProcessed, stats.Published, stats.Backfill,
			)
			return nil
		},
	}
}

func newResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored posts and the poll watermark",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.posts.DeleteAll(ctx); err != nil {
				return fmt.Errorf("delete posts: %w", err)
			}
			if err := a.pollState.Delete(ctx); err != nil {
				return fmt.Errorf("delete poll state: %w", err)
			}
			a.logger.Info("all data cleared")
			return nil
		},
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
