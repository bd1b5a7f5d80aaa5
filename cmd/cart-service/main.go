package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/ports"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/service"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/summary"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/adapters/sessionstore"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/catalog"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/httpx"
	"github.com/jcmexdev/menu-cart/internal/dispatchlog"
	"github.com/jcmexdev/menu-cart/internal/dispatchlog/sqlite"
	"github.com/jcmexdev/menu-cart/internal/pkg/config"
	"github.com/jcmexdev/menu-cart/internal/pkg/money"
	"github.com/jcmexdev/menu-cart/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Environment: cfg.Environment,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	formatter, err := money.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		slog.Error("invalid currency settings", "error", err)
		os.Exit(1)
	}

	menu, err := catalog.Load(cfg.MenuPath)
	if err != nil {
		slog.Error("failed to load menu", "path", cfg.MenuPath, "error", err)
		os.Exit(1)
	}

	store, closeStore := newSessionStore(ctx, cfg)
	defer closeStore()

	// A nil repository disables the dispatch log.
	var (
		dispatchRepo   dispatchlog.Repository
		dispatchReader dispatchlog.Reader
	)
	if cfg.DispatchDBPath != "" {
		repo, err := sqlite.Open(cfg.DispatchDBPath)
		if err != nil {
			slog.Error("failed to open dispatch log", "path", cfg.DispatchDBPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		dispatchRepo = repo
		dispatchReader = repo
	}

	builder := summary.NewBuilder(cfg.CheckoutMode, cfg.MessageServiceBase, cfg.WhatsAppNumber, formatter)
	carts, err := service.NewCartService(store, formatter, builder, dispatchRepo, cfg.SessionTTL)
	if err != nil {
		slog.Error("failed to build cart service", "error", err)
		os.Exit(1)
	}

	handler := httpx.NewHandler(carts, menu, formatter).WithDispatchLog(dispatchReader)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("cart service running",
		"addr", cfg.Addr(),
		"checkout_mode", cfg.CheckoutMode,
		"locale", formatter.Locale(),
		"redis", cfg.RedisAddr != "",
		"dispatch_log", dispatchRepo != nil,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// newSessionStore picks Redis when configured, otherwise process memory with a
// background sweep of expired sessions.
func newSessionStore(ctx context.Context, cfg config.Config) (ports.SessionStore, func()) {
	if cfg.RedisAddr != "" {
		store := sessionstore.NewRedis(cfg.RedisAddr, cfg.ServiceName)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			slog.Error("failed to reach redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		return store, func() { _ = store.Close() }
	}

	store := sessionstore.NewMemory()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					slog.Debug("expired sessions swept", "count", n)
				}
			}
		}
	}()
	return store, func() {}
}
