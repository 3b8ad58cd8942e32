package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"article-desk/internal/api"
	"article-desk/internal/config"
	"article-desk/internal/controller"
	"article-desk/internal/logging"
	"article-desk/internal/session"

	"go.uber.org/zap"
)

// options are the persistent flags. Empty values fall back to the config
// file and DESK_* variables.
type options struct {
	configPath string
	apiURL     string
	session    string
	dataDir    string
	logLevel   string
	logFile    string
	timeout    time.Duration
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  session.Store
	ctrl   *controller.Controller
}

func (o *options) path() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultPath()
}

// load layers the config file, DESK_* variables and flags, in that order.
func (o *options) load() (config.Config, error) {
	path, err := o.path()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	o.overlay(&cfg)

	if cfg.Session == "" || cfg.Session == "badger" || strings.HasPrefix(cfg.Session, "hybrid+") {
		if err := cfg.ResolveDataDir(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// overlay copies the flags that were set onto cfg.
func (o *options) overlay(cfg *config.Config) {
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.session != "" {
		cfg.Session = o.session
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
}

// save writes the config file with the flags applied. Environment
// overrides and the derived data directory are not persisted.
func (o *options) save() (string, config.Config, error) {
	path, err := o.path()
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return path, cfg, err
	}
	o.overlay(&cfg)
	return path, cfg, config.Save(path, cfg)
}

func (o *options) open(ctx context.Context) (*app, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, o.logFile)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(ctx, cfg.Session, cfg.DataDir)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.NewClient(cfg.APIURL, cfg.Timeout, logger.Named("api"))
	ctrl := controller.New(client, store, logger.Named("controller"))
	if _, err := ctrl.Open(ctx); err != nil {
		ctrl.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	logger.Debug("Ready",
		zap.String("api", cfg.APIURL),
		zap.String("session", cfg.Session))
	return &app{cfg: cfg, logger: logger, store: store, ctrl: ctrl}, nil
}

func (a *app) Close() {
	a.ctrl.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Error("Failed to close session store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
