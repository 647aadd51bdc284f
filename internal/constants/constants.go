package constants

import "time"

// CacheTTL 는 패키지 변수다.
var CacheTTL = struct {
	UserProfile time.Duration
	UserRanking time.Duration
	TextBest    time.Duration
}{
	UserProfile: 3 * time.Minute, // 프로필 요약 (쓰기 시 무효화)
	UserRanking: 3 * time.Minute, // 리더보드
	TextBest:    3 * time.Minute, // 글별 1등 기록
}

// ValkeyConfig 는 패키지 변수다.
var ValkeyConfig = struct {
	ReadyTimeout      time.Duration
	ConnWriteTimeout  time.Duration
	DialTimeout       time.Duration
	BlockingPoolSize  int
	PipelineMultiplex int
}{
	ReadyTimeout:      5 * time.Second,
	ConnWriteTimeout:  3 * time.Second,
	DialTimeout:       3 * time.Second,
	BlockingPoolSize:  100,
	PipelineMultiplex: 4,
}

// DatabaseConfig 는 패키지 변수다.
var DatabaseConfig = struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
}

// DatabaseDefaults 는 패키지 변수다.
var DatabaseDefaults = struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}{
	Host:     "localhost",
	Port:     5432,
	User:     "taja",
	Password: "taja",
	Database: "taja",
}

// RequestTimeout 는 패키지 변수다.
var RequestTimeout = struct {
	DatabasePing time.Duration
	APIRequest   time.Duration
	AdminRequest time.Duration
}{
	DatabasePing: 5 * time.Second,
	APIRequest:   10 * time.Second,
	AdminRequest: 15 * time.Second,
}

// ServerTimeout 는 패키지 변수다.
var ServerTimeout = struct {
	ReadHeader     time.Duration
	Read           time.Duration
	Write          time.Duration
	Idle           time.Duration
	Shutdown       time.Duration
	MaxHeaderBytes int
}{
	ReadHeader:     5 * time.Second,
	Read:           15 * time.Second,
	Write:          30 * time.Second,
	Idle:           60 * time.Second,
	Shutdown:       10 * time.Second,
	MaxHeaderBytes: 1 << 20,
}

// ServerConfig 는 패키지 변수다.
var ServerConfig = struct {
	TrustedProxies []string
}{
	TrustedProxies: []string{"127.0.0.1"},
}

// CORSConfig 는 패키지 변수다.
var CORSConfig = struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}{
	AllowOrigins: []string{"http://localhost:3000"},
	AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-INTERNAL-KEY"},
}

// QueryLimits 는 패키지 변수다.
var QueryLimits = struct {
	MaxRandomTexts    int
	DefaultRecent     int
	DefaultRanking    int
	MaxRankingLimit   int
	MaxHistoryEntries int
}{
	MaxRandomTexts:    50, // /text/main 랜덤 조회 상한
	DefaultRecent:     5,
	DefaultRanking:    10,
	MaxRankingLimit:   100,
	MaxHistoryEntries: 500,
}

// PerfThreshold 는 패키지 변수다.
var PerfThreshold = struct {
	P95LatencyMs float64
}{
	P95LatencyMs: 500, // p95가 이 값 미만이면 해당 엔드포인트 성능 만족으로 기록
}
