package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/service/account"
	"github.com/kapu/taja-backend-go/internal/service/cache"
	"github.com/kapu/taja-backend-go/internal/service/report"
	"github.com/kapu/taja-backend-go/internal/service/result"
	"github.com/kapu/taja-backend-go/internal/service/system"
	"github.com/kapu/taja-backend-go/internal/service/text"
	apperrors "github.com/kapu/taja-backend-go/pkg/errors"
)

// APIHandler: 타자연습 API 요청을 처리하는 핸들러입니다.
// 핸들러 메서드는 도메인별 파일로 분리됨:
//   - api_text.go: 연습 글 관리 + 찜
//   - api_result.go: 연습 결과 제출/조회/삭제
//   - api_user.go: 프로필/랭킹/이력
//   - api_auth.go: 구글 로그인
//   - api_admin.go: 테스트 리포트 + 시스템 상태
type APIHandler struct {
	accounts    *account.Repository
	auth        *account.Service
	texts       *text.Repository
	results     *result.Repository
	reports     *report.Repository
	cache       *cache.Service
	systemStats *system.Collector
	logger      *slog.Logger
	startTime   time.Time

	loginLimiter *LoginRateLimiter
}

// NewAPIHandler: 새로운 API 핸들러를 생성합니다.
func NewAPIHandler(
	accounts *account.Repository,
	authSvc *account.Service,
	texts *text.Repository,
	results *result.Repository,
	reports *report.Repository,
	cacheSvc *cache.Service,
	systemSvc *system.Collector,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		accounts:    accounts,
		auth:        authSvc,
		texts:       texts,
		results:     results,
		reports:     reports,
		cache:       cacheSvc,
		systemStats: systemSvc,
		logger:      logger,
		startTime:   time.Now(),

		loginLimiter: NewLoginRateLimiter(),
	}
}

// intParam: 경로 파라미터를 정수로 파싱한다. 실패 시 400을 응답하고 false를 돌려준다.
func (h *APIHandler) intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		h.logger.Warn("Invalid path parameter",
			slog.String("param", name),
			slog.String("value", c.Param(name)),
		)
		respondError(c, http.StatusBadRequest, "잘못된 "+name+" 값입니다.")
		return 0, false
	}
	return v, true
}

// respondDomainError: 도메인 에러를 HTTP 상태로 매핑해 응답한다.
// 예상 밖의 에러는 상세를 로그에만 남기고 일반 메시지로 500을 돌려준다.
func (h *APIHandler) respondDomainError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(fallback,
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// invalidateUserCache: 유저 통계가 바뀌는 쓰기 작업 후 프로필/랭킹 캐시를 비운다.
// 캐시 실패는 응답을 막지 않는다.
func (h *APIHandler) invalidateUserCache(c *gin.Context) {
	if err := h.cache.DeleteByPrefix(c.Request.Context(), "user:"); err != nil {
		h.logger.Warn("Failed to invalidate user cache", slog.Any("error", err))
	}
}

// invalidateTextBestCache: 해당 글의 최고 기록 캐시를 비운다. (결과 제출/삭제 후)
func (h *APIHandler) invalidateTextBestCache(c *gin.Context, textID int) {
	key := fmt.Sprintf("text:best:%d", textID)
	if err := h.cache.Delete(c.Request.Context(), key); err != nil {
		h.logger.Warn("Failed to invalidate best-record cache", slog.Any("error", err))
	}
}

// invalidateAllTextBestCache: 글 단위를 특정할 수 없는 삭제(계정 탈퇴) 후 전체를 비운다.
func (h *APIHandler) invalidateAllTextBestCache(c *gin.Context) {
	if err := h.cache.DeleteByPrefix(c.Request.Context(), "text:best:"); err != nil {
		h.logger.Warn("Failed to invalidate best-record cache", slog.Any("error", err))
	}
}
