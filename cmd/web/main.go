package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"icculus.org/quake3-web/internal/config"
	"icculus.org/quake3-web/internal/content"
	"icculus.org/quake3-web/internal/handlers"
	"icculus.org/quake3-web/internal/layout"
	mw "icculus.org/quake3-web/internal/middleware"
	"icculus.org/quake3-web/internal/observability"
	"icculus.org/quake3-web/internal/pages"
	"icculus.org/quake3-web/internal/site"
	"icculus.org/quake3-web/internal/status"
)

const statusProducer = "platform-status"

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		var cfgErr *pages.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Error("page configuration invalid", zap.String("page", cfgErr.Identifier), zap.Error(err))
		} else {
			logger.Error("server failed", zap.Error(err))
		}
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// newApp loads the page registry and assembles the HTTP handler. Any page
// configuration problem is returned before the server starts.
func newApp(cfg config.Config, logger *zap.Logger) (http.Handler, error) {
	var contentFS fs.FS
	if cfg.Content.Dir != "" {
		contentFS = os.DirFS(cfg.Content.Dir)
	} else {
		contentFS = site.Content()
	}

	statusClient := status.NewClient(cfg.Status.FeedURL,
		status.WithLocalFS(contentFS, status.LocalFile),
		status.WithCacheTTL(cfg.Status.CacheTTL),
		status.WithLogger(logger.Named("status")),
	)
	reg, err := content.Load(contentFS,
		content.WithProducer(statusProducer, statusClient.Producer()),
		content.WithReload(cfg.Dev),
		content.WithLogger(logger.Named("content")),
	)
	if err != nil {
		return nil, err
	}
	router, err := pages.NewRouter(reg)
	if err != nil {
		return nil, err
	}
	assembler, err := layout.New(layout.Site{
		Name:    cfg.Site.Name,
		Tagline: cfg.Site.Tagline,
		Footer:  cfg.Site.Footer,
		BaseURL: cfg.Site.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("pages registered", zap.Int("count", reg.Len()), zap.String("default", reg.DefaultIdentifier()))

	return newRouter(cfg, logger, handlers.NewPages(router, assembler, handlers.WithLogger(logger))), nil
}

func newRouter(cfg config.Config, logger *zap.Logger, page http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMid.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(chiMid.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.Recover)
	r.Use(chiMid.Compress(5))
	r.Use(chiMid.Timeout(cfg.Server.RequestTimeout))
	r.Use(chiMid.GetHead)

	r.Get("/healthz", handlers.Healthz)

	for _, prefix := range []string{"/assets", "/images"} {
		r.Handle(prefix+"/*", mw.AssetsWithCache(prefix, filepath.Join(cfg.Content.PublicDir, prefix)))
	}

	r.With(mw.SecurityHeaders).Get("/", page.ServeHTTP)
	return r
}
