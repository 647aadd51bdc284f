// Package health: 로드밸런서 프로브용 서비스 상태 정보.
// Init은 프로세스당 한 번만 유효하다.
package health

import (
	"runtime"
	"sync"
	"time"
)

var (
	startTime time.Time
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 버전과 기동 시각을 기록한다.
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Response: GET /health 응답
type Response struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
}

// Get: 현재 상태 스냅샷을 반환한다.
func Get() Response {
	return Response{
		Status:     "ok",
		Version:    version,
		Uptime:     time.Since(startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}
}

// GetVersion: 기동 시 기록된 버전 문자열을 반환한다.
func GetVersion() string {
	return version
}
