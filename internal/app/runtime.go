package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kapu/taja-backend-go/internal/config"
	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/service/cache"
	"github.com/kapu/taja-backend-go/internal/service/database"
)

// Runtime: 조립이 끝난 애플리케이션. HTTP 서버와 하부 리소스를 소유한다.
type Runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	db     *database.PostgresService
	cache  *cache.Service
}

// BuildRuntime: 설정으로부터 전체 서비스를 조립한다.
func BuildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	pg, err := ProvidePostgresService(cfg, logger)
	if err != nil {
		return nil, err
	}

	cacheSvc, err := ProvideCacheService(cfg, logger)
	if err != nil {
		pg.Close()
		return nil, err
	}

	repos, err := ProvideRepositories(pg.GetGormDB(), logger)
	if err != nil {
		cacheSvc.Close()
		pg.Close()
		return nil, err
	}

	authSvc := ProvideAuthService(cfg, repos.Accounts, logger)
	handler := ProvideAPIHandler(repos, authSvc, cacheSvc, logger)

	router, err := ProvideAPIRouter(ctx, cfg, logger, handler)
	if err != nil {
		cacheSvc.Close()
		pg.Close()
		return nil, err
	}

	return &Runtime{
		cfg:    cfg,
		logger: logger,
		server: ProvideAPIServer(ProvideAPIAddr(cfg), router),
		db:     pg,
		cache:  cacheSvc,
	}, nil
}

// Run: 서버를 기동하고 종료 시그널까지 블록한다. 종료 시 graceful shutdown을 수행한다.
func (r *Runtime) Run() {
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("API server listening", slog.String("addr", r.server.Addr))
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		r.logger.Error("API server failed", slog.Any("error", err))
	case sig := <-quit:
		r.logger.Info("Shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerTimeout.Shutdown)
	defer cancel()

	if err := r.server.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("Graceful shutdown failed", slog.Any("error", err))
	}
}

// Close: 하부 리소스를 정리한다.
func (r *Runtime) Close() {
	if err := r.cache.Close(); err != nil {
		r.logger.Warn("Failed to close cache", slog.Any("error", err))
	}
	if err := r.db.Close(); err != nil {
		r.logger.Warn("Failed to close database", slog.Any("error", err))
	}
}
