package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/kapu/taja-backend-go/internal/config"
	"github.com/kapu/taja-backend-go/internal/server"
	"github.com/kapu/taja-backend-go/internal/service/account"
	"github.com/kapu/taja-backend-go/internal/service/cache"
	"github.com/kapu/taja-backend-go/internal/service/database"
	"github.com/kapu/taja-backend-go/internal/service/report"
	"github.com/kapu/taja-backend-go/internal/service/result"
	"github.com/kapu/taja-backend-go/internal/service/system"
	"github.com/kapu/taja-backend-go/internal/service/text"
)

// ProvidePostgresService: 설정으로 PostgreSQL 연결을 수립한다.
func ProvidePostgresService(cfg *config.Config, logger *slog.Logger) (*database.PostgresService, error) {
	pg, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	return pg, nil
}

// ProvideCacheService: 설정으로 Valkey 캐시를 연결한다.
// 캐시 호스트 미설정 시 nil을 돌려주고, 서비스는 DB 직접 조회로 동작한다.
func ProvideCacheService(cfg *config.Config, logger *slog.Logger) (*cache.Service, error) {
	if !cfg.Valkey.Enabled() {
		logger.Info("Cache disabled, reads go straight to the database")
		return nil, nil
	}

	svc, err := cache.NewCacheService(cache.Config{
		Host:     cfg.Valkey.Host,
		Port:     cfg.Valkey.Port,
		Password: cfg.Valkey.Password,
		DB:       cfg.Valkey.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	return svc, nil
}

// Repositories: 도메인별 저장소 묶음
type Repositories struct {
	Accounts *account.Repository
	Texts    *text.Repository
	Results  *result.Repository
	Reports  *report.Repository
}

// ProvideRepositories: 저장소들을 생성하고 스키마를 마이그레이션한다.
func ProvideRepositories(db *gorm.DB, logger *slog.Logger) (*Repositories, error) {
	accounts, err := account.NewRepository(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create account repository: %w", err)
	}
	texts, err := text.NewRepository(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create text repository: %w", err)
	}
	results, err := result.NewRepository(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create result repository: %w", err)
	}
	reports, err := report.NewRepository(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create report repository: %w", err)
	}

	return &Repositories{
		Accounts: accounts,
		Texts:    texts,
		Results:  results,
		Reports:  reports,
	}, nil
}

// ProvideAuthService: 구글 로그인 신원 브릿지를 생성한다.
func ProvideAuthService(cfg *config.Config, accounts *account.Repository, logger *slog.Logger) *account.Service {
	verifier := account.NewGoogleVerifier(cfg.Google.ClientID)
	return account.NewService(accounts, verifier, cfg.Google.InternalKey, logger)
}

// ProvideAPIHandler: HTTP 핸들러를 조립한다.
func ProvideAPIHandler(
	repos *Repositories,
	authSvc *account.Service,
	cacheSvc *cache.Service,
	logger *slog.Logger,
) *server.APIHandler {
	return server.NewAPIHandler(
		repos.Accounts,
		authSvc,
		repos.Texts,
		repos.Results,
		repos.Reports,
		cacheSvc,
		system.NewCollector(),
		logger,
	)
}
