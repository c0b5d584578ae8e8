package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/config"
	"github.com/at-ishikawa/studylog/internal/database"
	"github.com/at-ishikawa/studylog/internal/logger"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// app holds what every command needs once the configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *studylog.Store
	close  func()
}

// newApp loads the configuration and opens an initialized store.
// Callers must call close when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log, os.Stderr, debugMode)
	if err != nil {
		return nil, fmt.Errorf("logger.New() > %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("database.Open() > %w", err)
	}

	store := studylog.NewStore(db, log)
	if err := store.Initialize(ctx); err != nil {
		_ = db.Close()
		_ = log.Sync()
		return nil, fmt.Errorf("store.Initialize() > %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: log,
		store:  store,
		close: func() {
			if err := db.Close(); err != nil {
				log.Warn("failed to close the database", zap.Error(err))
			}
			_ = log.Sync()
		},
	}, nil
}

func today() civil.Date {
	return civil.DateOf(time.Now())
}

// dateFlag is a YYYY-MM-DD flag that stays unset until given.
type dateFlag struct {
	date civil.Date
	set  bool
}

// Set implements pflag.Value.
func (d *dateFlag) Set(v string) error {
	date, err := civil.ParseDate(v)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	d.date = date
	d.set = true
	return nil
}

// String implements pflag.Value.
func (d *dateFlag) String() string {
	if d == nil || !d.set {
		return ""
	}
	return d.date.String()
}

// Type implements pflag.Value.
func (d *dateFlag) Type() string {
	return "date"
}

// orToday returns the flag value, or today when it was not given.
func (d *dateFlag) orToday() civil.Date {
	if d.set {
		return d.date
	}
	return today()
}

// rangeFlag accepts the names of progress.RangeKind.
type rangeFlag progress.RangeKind

// Set implements pflag.Value.
func (r *rangeFlag) Set(v string) error {
	kind, err := progress.ParseRangeKind(v)
	if err != nil {
		return err
	}
	*r = rangeFlag(kind)
	return nil
}

// String implements pflag.Value.
func (r *rangeFlag) String() string {
	if r == nil {
		return ""
	}
	return progress.RangeKind(*r).String()
}

// Type implements pflag.Value.
func (r *rangeFlag) Type() string {
	return "range"
}

var (
	_ pflag.Value = (*dateFlag)(nil)
	_ pflag.Value = (*rangeFlag)(nil)
)
