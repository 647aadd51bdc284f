package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginRateLimiter: IP별 로그인 시도 횟수 제한.
// 토큰 버킷(golang.org/x/time/rate)을 IP마다 하나씩 유지한다.
type LoginRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginRateLimiter: 새 Rate Limiter 생성. 분당 10회, 버스트 5회.
func NewLoginRateLimiter() *LoginRateLimiter {
	rl := &LoginRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(6 * time.Second),
		burst:    5,
		idleTTL:  10 * time.Minute,
	}

	// 주기적 정리 고루틴
	go rl.cleanupLoop()

	return rl
}

// Allow: IP의 로그인 시도 허용 여부 확인
func (l *LoginRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

// cleanupLoop: 오래 안 본 IP 기록 주기적 정리
func (l *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.cleanup()
	}
}

func (l *LoginRateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, ip)
		}
	}
}
