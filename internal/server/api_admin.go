package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/health"
	"github.com/kapu/taja-backend-go/internal/service/report"
)

// ReceiveReport: CI/부하 테스트 통합 리포트를 저장합니다. (POST /admin/report)
func (h *APIHandler) ReceiveReport(c *gin.Context) {
	var in report.Ingest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "요청 본문을 해석할 수 없습니다: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.AdminRequest)
	defer cancel()

	reportID, err := h.reports.Save(ctx, &in)
	if err != nil {
		h.respondDomainError(c, err, "리포트 저장에 실패했습니다.")
		return
	}

	respond(c, http.StatusCreated, gin.H{"report_id": reportID})
}

// ListReports: 전체 리포트 요약 목록을 반환합니다. (GET /admin/reports)
func (h *APIHandler) ListReports(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.AdminRequest)
	defer cancel()

	list, err := h.reports.List(ctx)
	if err != nil {
		h.respondDomainError(c, err, "리포트 목록 조회에 실패했습니다.")
		return
	}
	respond(c, http.StatusOK, list)
}

// ReportDetail: 리포트 상세를 반환합니다. (GET /admin/reports/:report_id)
func (h *APIHandler) ReportDetail(c *gin.Context) {
	reportID, ok := h.intParam(c, "report_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.AdminRequest)
	defer cancel()

	detail, err := h.reports.Detail(ctx, reportID)
	if err != nil {
		h.respondDomainError(c, err, "리포트 상세 조회에 실패했습니다.")
		return
	}
	respond(c, http.StatusOK, detail)
}

// SystemStats: 서버의 시스템 리소스 상태를 반환합니다. (GET /admin/system)
func (h *APIHandler) SystemStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.AdminRequest)
	defer cancel()

	snapshot, err := h.systemStats.GetCurrentStats(ctx)
	if err != nil {
		h.logger.Error("Failed to collect system stats", slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "시스템 상태 수집에 실패했습니다.")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"system": snapshot,
		"server": gin.H{
			"version": health.GetVersion(),
			"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		},
	})
}
