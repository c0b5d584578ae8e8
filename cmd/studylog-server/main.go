package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/studylog/internal/bootstrap"
	"github.com/at-ishikawa/studylog/internal/coach"
	"github.com/at-ishikawa/studylog/internal/config"
	"github.com/at-ishikawa/studylog/internal/database"
	"github.com/at-ishikawa/studylog/internal/inference"
	"github.com/at-ishikawa/studylog/internal/inference/gemini"
	"github.com/at-ishikawa/studylog/internal/logger"
	"github.com/at-ishikawa/studylog/internal/metrics"
	"github.com/at-ishikawa/studylog/internal/server"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

var (
	configFile string
	debugMode  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "studylog-server",
		Short:         "Study log HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}

	log, err := logger.New(cfg.Log, os.Stderr, debugMode)
	if err != nil {
		return fmt.Errorf("logger.New() > %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	app := bootstrap.New(log)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return db.Close()
	})

	// Storage failures are reported per request instead of stopping the server.
	store := studylog.NewStore(db, log)
	if err := store.Initialize(ctx); err != nil {
		log.Error("failed to initialize the study log store", zap.Error(err))
	}

	validator, err := studylog.NewValidator()
	if err != nil {
		return fmt.Errorf("studylog.NewValidator() > %w", err)
	}

	var client inference.Client
	if cfg.Gemini.APIKey != "" {
		geminiClient := gemini.NewClient(cfg.Gemini, log)
		app.AddShutdownHook(func(ctx context.Context) error {
			return geminiClient.Close()
		})
		client = geminiClient
		log.Info("suggestions enabled", zap.String("model", geminiClient.GetModel()))
	} else {
		log.Warn("GEMINI_API_KEY is not set, /api/advice will answer 503")
	}

	api := server.New(cfg, store, validator, coach.New(client, log), metrics.New(), log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(api.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}
