package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/service/result"
	"github.com/kapu/taja-backend-go/internal/service/stats"
)

// submitResultRequest: 결과 제출 요청. 누락 필드를 구분하려고 포인터로 받는다.
// wpm은 선택 항목이라 누락 시 0으로 처리한다.
type submitResultRequest struct {
	UserID   *int     `json:"user_id"`
	TextID   *int     `json:"text_id"`
	CPM      *int     `json:"cpm"`
	WPM      *int     `json:"wpm"`
	Accuracy *float64 `json:"accuracy"`
	Combo    *int     `json:"combo"`
}

// missingField: 비어있는 필수 필드 이름을 돌려준다. 모두 있으면 빈 문자열.
func (r *submitResultRequest) missingField() string {
	switch {
	case r.UserID == nil:
		return "user_id"
	case r.TextID == nil:
		return "text_id"
	case r.CPM == nil:
		return "cpm"
	case r.Accuracy == nil:
		return "accuracy"
	case r.Combo == nil:
		return "combo"
	}
	return ""
}

// statsPayload: 갱신된 유저 통계의 응답 표현
func statsPayload(s stats.Snapshot) gin.H {
	return gin.H{
		"play_count":    s.PlayCount,
		"max_combo":     s.MaxCombo,
		"avg_accuracy":  s.AvgAccuracy,
		"avg_cpm":       s.AvgCPM,
		"avg_wpm":       s.AvgWPM,
		"best_cpm":      s.BestCPM,
		"best_wpm":      s.BestWPM,
		"ranking_score": s.RankingScore,
	}
}

// SubmitResult: 연습 결과를 저장하고 유저 통계를 갱신합니다. (POST /text/results)
func (h *APIHandler) SubmitResult(c *gin.Context) {
	var req submitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "요청 본문을 해석할 수 없습니다: "+err.Error())
		return
	}
	if field := req.missingField(); field != "" {
		respondError(c, http.StatusBadRequest, field+" 필드가 누락되었습니다.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	wpm := 0
	if req.WPM != nil {
		wpm = *req.WPM
	}
	sample := stats.Sample{
		CPM:      *req.CPM,
		WPM:      wpm,
		Combo:    *req.Combo,
		Accuracy: *req.Accuracy,
	}
	out, err := h.results.Submit(ctx, *req.UserID, *req.TextID, sample)
	if err != nil {
		h.respondDomainError(c, err, "결과 저장에 실패했습니다.")
		return
	}

	h.invalidateUserCache(c)
	h.invalidateTextBestCache(c, *req.TextID)

	data := statsPayload(out.Stats)
	data["result_id"] = out.ResultID
	data["is_new_record"] = out.IsNewRecord
	respond(c, http.StatusCreated, data)
}

// BestResult: 특정 글의 전체 최고 기록을 반환합니다. (GET /text/results/best?text_id=)
// 기록이 없으면 "No record" 센티널을 돌려준다. 센티널 포함 읽기 캐시를 탄다.
func (h *APIHandler) BestResult(c *gin.Context) {
	textIDStr := c.Query("text_id")
	if textIDStr == "" {
		respondError(c, http.StatusBadRequest, "text_id 쿼리 파라미터가 필요합니다.")
		return
	}
	textID, err := strconv.Atoi(textIDStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "잘못된 text_id 값입니다.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	cacheKey := fmt.Sprintf("text:best:%d", textID)
	var cached result.BestRecord
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respond(c, http.StatusOK, cached)
		return
	}

	best, err := h.results.BestByText(ctx, textID)
	if err != nil {
		h.respondDomainError(c, err, "최고 기록 조회에 실패했습니다.")
		return
	}
	if best == nil {
		best = &result.BestRecord{TopPlayer: "No record"}
	}

	if err := h.cache.Set(ctx, cacheKey, best, constants.CacheTTL.TextBest); err != nil {
		h.logger.Warn("Failed to cache best record", slog.Any("error", err))
	}
	respond(c, http.StatusOK, best)
}

// GetResult: (글, 유저, 결과) 삼중 키로 결과 한 건을 반환합니다.
// (GET /text/results/:text_id/:user_id/:result_id)
func (h *APIHandler) GetResult(c *gin.Context) {
	textID, ok := h.intParam(c, "text_id")
	if !ok {
		return
	}
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}
	resultID, ok := h.intParam(c, "result_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	row, err := h.results.FindByTriple(ctx, textID, userID, resultID)
	if err != nil {
		h.respondDomainError(c, err, "결과 조회에 실패했습니다.")
		return
	}
	if row == nil {
		respondError(c, http.StatusNotFound, "결과를 찾을 수 없습니다.")
		return
	}

	respond(c, http.StatusOK, result.ToRecord(row))
}

// DeleteResult: 결과 한 건을 삭제하고 재계산된 통계를 반환합니다.
// (DELETE /text/results/:text_id/:user_id/:result_id)
func (h *APIHandler) DeleteResult(c *gin.Context) {
	textID, ok := h.intParam(c, "text_id")
	if !ok {
		return
	}
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}
	resultID, ok := h.intParam(c, "result_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	recomputed, err := h.results.DeleteByTriple(ctx, textID, userID, resultID)
	if err != nil {
		h.respondDomainError(c, err, "결과 삭제에 실패했습니다.")
		return
	}

	h.invalidateUserCache(c)
	h.invalidateTextBestCache(c, textID)

	respond(c, http.StatusOK, gin.H{"updated_stats": statsPayload(*recomputed)})
}
