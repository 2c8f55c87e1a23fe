package common

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownHook runs after a termination signal, before the servers stop
// accepting requests. Errors are logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration `mapstructure:"read_header"`
	Read       time.Duration `mapstructure:"read"`
	Write      time.Duration `mapstructure:"write"`
	Idle       time.Duration `mapstructure:"idle"`
	Shutdown   time.Duration `mapstructure:"shutdown"`
	Hook       time.Duration `mapstructure:"hook"`
}

const (
	defaultShutdownTimeout = 15 * time.Second
	defaultHookTimeout     = 5 * time.Second
)

// NewServerWithTimeouts applies the configured timeouts to base, creating a
// server when base is nil.
func NewServerWithTimeouts(base *http.Server, cfg TimeoutConfig) *http.Server {
	if base == nil {
		base = &http.Server{}
	}
	base.ReadHeaderTimeout = cfg.ReadHeader
	base.ReadTimeout = cfg.Read
	base.WriteTimeout = cfg.Write
	base.IdleTimeout = cfg.Idle
	return base
}

// NamedServer is a server with the name used in its log lines.
type NamedServer struct {
	Name   string
	Server *http.Server
}

// RunServersWithShutdown starts every server and blocks until SIGINT or
// SIGTERM. Hooks then run in order, each bounded by cfg.Hook, and finally
// all servers are shut down in parallel within cfg.Shutdown.
//
//	common.RunServersWithShutdown(logger, cfg.Timeouts, []common.NamedServer{{Name: "api", Server: srv}}, closeTracking)
func RunServersWithShutdown(logger *zap.Logger, cfg TimeoutConfig, servers []NamedServer, hooks ...ShutdownHook) {
	for _, s := range servers {
		go func(s NamedServer) {
			logger.Info("starting server", zap.String("name", s.Name), zap.String("addr", s.Server.Addr))
			if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("listen error", zap.String("name", s.Name), zap.Error(err))
			}
		}(s)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	shutdownTimeout := cfg.Shutdown
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	RunHooks(ctx, logger, cfg.Hook, hooks...)
	ShutdownServers(ctx, logger, servers...)
}

// ShutdownServers gracefully stops the servers in parallel and waits for all
// of them.
func ShutdownServers(ctx context.Context, logger *zap.Logger, servers ...NamedServer) {
	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s NamedServer) {
			defer wg.Done()
			if err := s.Server.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown failed", zap.String("name", s.Name), zap.Error(err))
				return
			}
			logger.Info("shutdown complete", zap.String("name", s.Name))
		}(s)
	}
	wg.Wait()
}

// RunHooks runs hooks sequentially, each with its own timeout derived from ctx.
func RunHooks(ctx context.Context, logger *zap.Logger, hookTimeout time.Duration, hooks ...ShutdownHook) {
	if hookTimeout <= 0 {
		hookTimeout = defaultHookTimeout
	}
	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(ctx, hookTimeout)
		if err := h(hCtx); err != nil {
			logger.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("shutdown hook timed out", zap.Int("hook", i))
		}
		hCancel()
	}
}
