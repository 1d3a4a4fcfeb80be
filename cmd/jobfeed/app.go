package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/backend/transport"
	"github.com/pribylovaa/jobfeed/internal/config"
	"github.com/pribylovaa/jobfeed/internal/credstore"
	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/metrics"
	"github.com/pribylovaa/jobfeed/internal/session"
)

// app — собранные зависимости клиента.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    credstore.Store
	client   *backend.Client
	session  *session.Manager
	feed     *feed.Controller
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	const op = "main.newApp"

	registry, m := metrics.NewRegistry()

	store, err := credstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Менеджер сессии: единственный источник access-токена для транспорта,
	// но сам зависит от клиента (refresh), поэтому источник связывается позже.
	var mgr *session.Manager

	client, err := backend.New(backend.Options{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
		Tokens: transport.TokenSourceFunc(func(ctx context.Context) string {
			return mgr.AccessToken(ctx)
		}),
		Logger: log,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mgr = session.New(session.Options{
		Auth:          client,
		Store:         store,
		RenewBefore:   cfg.Session.RenewBefore,
		CheckInterval: cfg.Session.CheckInterval,
		Metrics:       m,
		Logger:        log,
	})

	ctrl := feed.New(feed.Options{
		Jobs:    client,
		Auth:    mgr,
		Metrics: m,
		Logger:  log,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  m,
		store:    store,
		client:   client,
		session:  mgr,
		feed:     ctrl,
	}, nil
}

// panelMode — режим панели фильтров из конфига.
func (a *app) panelMode() feed.Mode {
	if a.cfg.Feed.ApplyMode == config.ApplyDeferred {
		return feed.ModeDeferred
	}
	return feed.ModeImmediate
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("store_close_failed", slog.String("err", err.Error()))
	}
}
