// Package database: PostgreSQL 연결과 GORM 핸들 관리.
// raw SQL(집계 쿼리)과 GORM 양쪽에서 같은 커넥션 풀을 공유한다.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // PostgreSQL 드라이버 등록
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kapu/taja-backend-go/internal/constants"
)

// PostgresConfig: PostgreSQL 접속 정보
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (c PostgresConfig) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

// PostgresService: 커넥션 풀과 GORM 인스턴스를 함께 들고 있는 DB 서비스
type PostgresService struct {
	db     *sql.DB
	gormDB *gorm.DB
	logger *slog.Logger
}

// NewPostgresService: 풀을 구성하고 기동 시 ping으로 접속을 확인한다.
// GORM은 이미 열린 *sql.DB 위에 얹어서 풀을 이중으로 만들지 않는다.
func NewPostgresService(cfg PostgresConfig, logger *slog.Logger) (*PostgresService, error) {
	db, err := sql.Open("postgres", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(constants.DatabaseConfig.MaxOpenConns)
	db.SetMaxIdleConns(constants.DatabaseConfig.MaxIdleConns)
	db.SetConnMaxLifetime(constants.DatabaseConfig.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout.DatabasePing)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	// SQL 로그는 slog 쪽에 일원화하고 GORM 자체 로거는 끈다.
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize GORM: %w", err)
	}

	logger.Info("PostgreSQL connected",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("database", cfg.Database),
	)

	return &PostgresService{db: db, gormDB: gormDB, logger: logger}, nil
}

// GetDB: raw SQL용 *sql.DB 핸들
func (ps *PostgresService) GetDB() *sql.DB {
	return ps.db
}

// GetGormDB: 리포지토리들이 쓰는 GORM 핸들
func (ps *PostgresService) GetGormDB() *gorm.DB {
	return ps.gormDB
}

// Ping: 헬스 체크용 접속 확인
func (ps *PostgresService) Ping(ctx context.Context) error {
	if err := ps.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Close: 커넥션 풀을 닫는다. GORM 핸들은 풀을 공유하므로 별도 종료가 없다.
func (ps *PostgresService) Close() error {
	if ps.db != nil {
		if err := ps.db.Close(); err != nil {
			return fmt.Errorf("failed to close postgres: %w", err)
		}
	}
	return nil
}
