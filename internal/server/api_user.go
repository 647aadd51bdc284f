package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/service/account"
)

// profileData: 프로필 응답 (계정 + 통계)
type profileData struct {
	Account *account.Account `json:"account"`
	Stats   *account.Stats   `json:"stats"`
}

// rankingEntry: 랭킹 한 줄 (1부터 시작하는 순위 포함)
type rankingEntry struct {
	Rank    int              `json:"rank"`
	Account *account.Account `json:"account"`
	Stats   *account.Stats   `json:"stats"`
}

// Profile: 유저 프로필과 통계를 반환합니다. (GET /user/profile/:user_id)
// 캐시에 있으면 저장소를 타지 않는다.
func (h *APIHandler) Profile(c *gin.Context) {
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	cacheKey := fmt.Sprintf("user:profile:%d", userID)
	var cached profileData
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respond(c, http.StatusOK, cached)
		return
	}

	m, err := h.accounts.FindByID(ctx, userID)
	if err != nil {
		h.respondDomainError(c, err, "프로필 조회에 실패했습니다.")
		return
	}
	if m == nil {
		respondError(c, http.StatusNotFound, "유저를 찾을 수 없습니다.")
		return
	}

	data := profileData{Account: account.ToAccount(m), Stats: account.ToStats(m)}
	if err := h.cache.Set(ctx, cacheKey, data, constants.CacheTTL.UserProfile); err != nil {
		h.logger.Warn("Failed to cache profile", slog.Any("error", err))
	}
	respond(c, http.StatusOK, data)
}

// Ranking: 랭킹 점수 내림차순 상위 유저 목록을 반환합니다. (GET /user/ranking?limit=)
func (h *APIHandler) Ranking(c *gin.Context) {
	limit := constants.QueryLimits.DefaultRanking
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "잘못된 limit 값입니다.")
			return
		}
		limit = parsed
	}
	if limit > constants.QueryLimits.MaxRankingLimit {
		limit = constants.QueryLimits.MaxRankingLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	cacheKey := fmt.Sprintf("user:ranking:%d", limit)
	var cached []rankingEntry
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respond(c, http.StatusOK, cached)
		return
	}

	users, err := h.accounts.TopByRankingScore(ctx, limit)
	if err != nil {
		h.respondDomainError(c, err, "랭킹 조회에 실패했습니다.")
		return
	}

	entries := make([]rankingEntry, 0, len(users))
	for i := range users {
		entries = append(entries, rankingEntry{
			Rank:    i + 1,
			Account: account.ToAccount(&users[i]),
			Stats:   account.ToStats(&users[i]),
		})
	}

	if err := h.cache.Set(ctx, cacheKey, entries, constants.CacheTTL.UserRanking); err != nil {
		h.logger.Warn("Failed to cache ranking", slog.Any("error", err))
	}
	respond(c, http.StatusOK, entries)
}

// HistoryAll: 유저의 전체 연습 이력을 반환합니다. (GET /user/history/all/:user_id)
func (h *APIHandler) HistoryAll(c *gin.Context) {
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	entries, err := h.results.HistoryAll(ctx, userID)
	if err != nil {
		h.respondDomainError(c, err, "이력 조회에 실패했습니다.")
		return
	}
	respond(c, http.StatusOK, entries)
}

// HistoryRecent: 유저의 최근 연습 이력을 반환합니다. (GET /user/history/recent/:user_id?limit=)
func (h *APIHandler) HistoryRecent(c *gin.Context) {
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}

	limit := constants.QueryLimits.DefaultRecent
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	entries, err := h.results.HistoryRecent(ctx, userID, limit)
	if err != nil {
		h.respondDomainError(c, err, "최근 이력 조회에 실패했습니다.")
		return
	}
	respond(c, http.StatusOK, entries)
}

// HistoryByGenre: 장르로 필터링한 연습 이력을 반환합니다. (GET /user/history/genre/:user_id?genre=)
func (h *APIHandler) HistoryByGenre(c *gin.Context) {
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}

	genre := c.Query("genre")
	if genre == "" {
		respondError(c, http.StatusBadRequest, "조회할 장르를 지정해주세요.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	entries, err := h.results.HistoryByGenre(ctx, userID, genre)
	if err != nil {
		h.respondDomainError(c, err, "장르별 이력 조회에 실패했습니다.")
		return
	}
	respond(c, http.StatusOK, entries)
}

// FavoriteIDs: 유저가 찜한 글 ID 목록을 반환합니다. (GET /user/favorites/ids/:user_id)
func (h *APIHandler) FavoriteIDs(c *gin.Context) {
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	m, err := h.accounts.FindByID(ctx, userID)
	if err != nil {
		h.respondDomainError(c, err, "유저 조회에 실패했습니다.")
		return
	}
	if m == nil {
		respondError(c, http.StatusNotFound, "유저를 찾을 수 없습니다.")
		return
	}

	ids, err := h.texts.FavoriteIDs(ctx, userID)
	if err != nil {
		h.respondDomainError(c, err, "찜 목록 조회에 실패했습니다.")
		return
	}
	respond(c, http.StatusOK, gin.H{"favorite_ids": ids})
}

// DeleteUser: 계정과 딸린 결과/찜을 삭제합니다. (DELETE /user/:user_id)
func (h *APIHandler) DeleteUser(c *gin.Context) {
	userID, ok := h.intParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	if err := h.accounts.Delete(ctx, userID); err != nil {
		h.respondDomainError(c, err, "계정 삭제에 실패했습니다.")
		return
	}

	// 탈퇴로 지워진 결과가 어떤 글의 최고 기록이었는지 알 수 없으므로 전체를 비운다.
	h.invalidateUserCache(c)
	h.invalidateAllTextBestCache(c)

	respond(c, http.StatusOK, gin.H{"deleted_id": userID})
}
