package server

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware: 모든 응답에 기본 보안 헤더를 붙인다.
// 순수 JSON API라 프레임 임베딩은 전부 차단한다.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
