// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-utilizer/internal/artifact"
	"github.com/pdiddy/pdf-utilizer/internal/auth"
	"github.com/pdiddy/pdf-utilizer/internal/kvstore"
	"github.com/pdiddy/pdf-utilizer/internal/logging"
	"github.com/pdiddy/pdf-utilizer/internal/session"
	"github.com/pdiddy/pdf-utilizer/internal/transfer"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// appContext wires the services one CLI invocation needs.
type appContext struct {
	cfg      types.Config
	logger   *zap.Logger
	channel  *transfer.Channel
	registry artifact.Registry
	store    kvstore.Store
	gate     *session.Gate
	auth     *auth.Client
	printer  *statusPrinter
}

func newAppContext(cfg types.Config, out io.Writer) (*appContext, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	channel, err := transfer.New(cfg.Service, transfer.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var registry artifact.Registry = artifact.NewMemoryRegistry()
	if cfg.Artifacts.Dir != "" {
		dir, err := artifact.NewDirRegistry(cfg.Artifacts.Dir)
		if err != nil {
			return nil, err
		}
		registry = dir
	}

	store, err := kvstore.Open(cfg.Storage)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	a := &appContext{
		cfg:      cfg,
		logger:   logger,
		channel:  channel,
		registry: registry,
		store:    store,
		gate:     session.NewGate(store),
		auth:     auth.NewClient(channel, logger),
		printer:  newStatusPrinter(out),
	}
	if _, _, err := a.gate.Init(); err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("services ready",
		zap.String("base_url", cfg.Service.BaseURL),
		zap.String("storage", string(cfg.Storage.Backend)),
	)
	return a, nil
}

// Close tears down the session gate and releases every artifact.
func (a *appContext) Close() {
	a.gate.Teardown()
	if err := a.registry.Close(); err != nil {
		a.logger.Warn("closing artifact registry", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing session store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
