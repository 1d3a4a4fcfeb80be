package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/jobfeed/internal/feed"
	jfhttp "github.com/pribylovaa/jobfeed/internal/http"
	"github.com/pribylovaa/jobfeed/internal/http/handlers"
	"github.com/pribylovaa/jobfeed/internal/http/views"
	"github.com/pribylovaa/jobfeed/internal/metrics"
)

func newServeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the job feed on localhost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), g)
		},
	}
}

func serve(ctx context.Context, g *globals) error {
	cfg := g.cfg

	log := setupLogger(cfg.Env, os.Stdout)
	slog.SetDefault(log)
	log.Info("starting jobfeed", "env", cfg.Env, "apply_mode", cfg.Feed.ApplyMode)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("app_init_failed", slog.String("err", err.Error()))
		return err
	}
	defer a.Close()

	// Первая проверка и периодическое обновление токена.
	a.session.Start(ctx)
	defer a.session.Stop()

	v, err := views.New()
	if err != nil {
		log.Error("views_init_failed", slog.String("err", err.Error()))
		return err
	}

	h := handlers.New(handlers.Deps{
		Sessions: a.session,
		Feed:     a.feed,
		Panel:    feed.NewPanel(a.feed, a.panelMode()),
		Store:    a.store,
		Views:    v,
	})

	appHandler := jfhttp.NewRouter(h, a.session, jfhttp.Options{
		Logger:   log,
		Timeout:  cfg.HTTP.Timeout,
		Metrics:  a.metrics,
		GateWait: cfg.Session.GateWait,
	})

	var ready int32 // 0: not ready, 1: ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", metrics.Handler(a.registry))

	mux.Handle("/", appHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return err
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("jobfeed_ready", slog.String("url", "http://"+httpAddr+"/jobs"))

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")

	return serveErr
}
