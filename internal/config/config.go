package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/util"
)

// Config: 타자연습 백엔드의 전체 동작에 필요한 설정을 담는 구조체
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Valkey   ValkeyConfig
	Google   GoogleConfig
	Logging  LoggingConfig
	Version  string
}

// ServerConfig: HTTP API 서버 설정
type ServerConfig struct {
	Port         int
	AllowOrigins []string
}

// PostgresConfig: 메인 데이터베이스(PostgreSQL) 연결 설정
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// ValkeyConfig: 읽기 캐시 용도의 Redis(Valkey) 연결 설정
// Host가 비어있으면 캐시 없이 DB 직접 조회로 동작한다.
type ValkeyConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled: 캐시 사용 여부를 반환한다.
func (c ValkeyConfig) Enabled() bool {
	return c.Host != ""
}

// GoogleConfig: 구글 로그인 연동 설정
// InternalKey는 프론트엔드 서버와 공유하는 내부 동기화 키(X-INTERNAL-KEY)다.
type GoogleConfig struct {
	ClientID    string
	InternalKey string
}

// LoggingConfig: 애플리케이션 로그 설정 (레벨, 디렉토리, 로테이션 정책)
type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load: .env 파일 및 환경 변수로부터 설정을 로드하고, 기본값을 적용하여 Config 객체를 생성한다.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			AllowOrigins: parseCommaSeparated(getEnv("CORS_ALLOW_ORIGINS", "")),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", constants.DatabaseDefaults.Host),
			Port:     getEnvInt("POSTGRES_PORT", constants.DatabaseDefaults.Port),
			User:     getEnv("POSTGRES_USER", constants.DatabaseDefaults.User),
			Password: getEnv("POSTGRES_PASSWORD", constants.DatabaseDefaults.Password),
			Database: getEnv("POSTGRES_DB", constants.DatabaseDefaults.Database),
		},
		Valkey: ValkeyConfig{
			Host:     getEnv("CACHE_HOST", ""),
			Port:     getEnvInt("CACHE_PORT", 6379),
			Password: getEnv("CACHE_PASSWORD", ""),
			DB:       getEnvInt("CACHE_DB", 0),
		},
		Google: GoogleConfig{
			ClientID:    util.TrimSpace(getEnv("GOOGLE_CLIENT_ID", "")),
			InternalKey: util.TrimSpace(getEnv("INTERNAL_SYNC_KEY", "")),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        getEnv("LOG_DIR", "logs"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Version: util.TrimSpace(getEnv("APP_VERSION", "1.0.0-go")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Postgres.Host == "" || c.Postgres.Database == "" {
		return fmt.Errorf("postgres host/database must not be empty")
	}
	if c.Google.InternalKey == "" {
		// 내부 키 없이 기동은 허용하되 /auth/google은 항상 403으로 거부된다.
		fmt.Fprintln(os.Stderr, "warning: INTERNAL_SYNC_KEY not set, google login disabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func parseCommaSeparated(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
