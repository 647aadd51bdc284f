package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/service/account"
)

// parseBearerToken: Authorization 헤더에서 Bearer 토큰을 꺼낸다. 없으면 빈 문자열.
func parseBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// GoogleLogin: 내부 키와 구글 ID 토큰으로 로그인합니다. (POST /auth/google)
// 최초 로그인이면 계정을 만들고 201, 기존 계정이면 200을 돌려준다.
func (h *APIHandler) GoogleLogin(c *gin.Context) {
	ip := c.ClientIP()
	if !h.loginLimiter.Allow(ip) {
		h.logger.Warn("Login rate limited", slog.String("ip", ip))
		respondError(c, http.StatusTooManyRequests, "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	internalKey := c.GetHeader("X-INTERNAL-KEY")
	token := parseBearerToken(c)

	result, err := h.auth.LoginWithGoogle(ctx, internalKey, token)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	respond(c, status, result.Account)
}

// respondAuthError: 인증 서비스 에러 코드를 HTTP 상태로 매핑한다.
func (h *APIHandler) respondAuthError(c *gin.Context, err error) {
	var authErr *account.Error
	if !errors.As(err, &authErr) {
		h.logger.Error("Login failed", slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	switch authErr.Code {
	case account.CodeForbidden:
		respondError(c, http.StatusForbidden, "접근 권한이 없습니다.")
	case account.CodeUnauthorized:
		respondError(c, http.StatusUnauthorized, "유효하지 않은 인증 토큰입니다.")
	case account.CodeInvalidInput:
		respondError(c, http.StatusBadRequest, authErr.Message)
	default:
		h.logger.Error("Login failed", slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
	}
}
