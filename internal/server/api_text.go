package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/service/text"
)

// addTextRequest: 연습 글 등록 요청
type addTextRequest struct {
	Genre    string  `json:"genre"`
	Title    string  `json:"title"`
	Author   *string `json:"author"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// textWithFavorite: 목록 응답에서 찜 여부가 덧붙은 글
type textWithFavorite struct {
	text.Text
	IsFavorite bool `json:"is_favorite"`
}

// AddText: 새 연습 글을 등록합니다. (POST /text/add)
func (h *APIHandler) AddText(c *gin.Context) {
	var req addTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "요청 본문을 해석할 수 없습니다: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	m := &text.Model{
		Genre:    req.Genre,
		Title:    req.Title,
		Author:   req.Author,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := h.texts.Create(ctx, m); err != nil {
		h.respondDomainError(c, err, "글 등록에 실패했습니다.")
		return
	}

	respond(c, http.StatusCreated, gin.H{"id": m.ID, "image_url": m.ImageURL})
}

// AllTexts: 전체 연습 글 목록을 반환합니다. (GET /text/all)
func (h *APIHandler) AllTexts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	texts, err := h.texts.All(ctx)
	if err != nil {
		h.respondDomainError(c, err, "글 목록 조회에 실패했습니다.")
		return
	}

	out := make([]text.Text, 0, len(texts))
	for i := range texts {
		out = append(out, *text.ToText(&texts[i]))
	}
	respond(c, http.StatusOK, out)
}

// TextsByGenre: 장르로 필터링한 글 목록을 반환합니다. 장르가 없으면 전체 목록. (GET /text)
func (h *APIHandler) TextsByGenre(c *gin.Context) {
	genre := c.Query("genre")
	if genre == "" {
		h.AllTexts(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	texts, err := h.texts.ByGenre(ctx, genre)
	if err != nil {
		h.respondDomainError(c, err, "장르별 글 조회에 실패했습니다.")
		return
	}

	out := make([]text.Text, 0, len(texts))
	for i := range texts {
		out = append(out, *text.ToText(&texts[i]))
	}
	respond(c, http.StatusOK, out)
}

// MainTexts: 메인 화면용 무작위 글을 반환합니다. (GET /text/main/:limit)
// user_id 쿼리가 있으면 각 글에 is_favorite를 달아준다.
func (h *APIHandler) MainTexts(c *gin.Context) {
	limit, ok := h.intParam(c, "limit")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	texts, err := h.texts.Random(ctx, limit)
	if err != nil {
		h.respondDomainError(c, err, "무작위 글 조회에 실패했습니다.")
		return
	}

	favorites := map[int]bool{}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.Atoi(userIDStr); err == nil {
			ids, err := h.texts.FavoriteIDs(ctx, userID)
			if err != nil {
				h.logger.Warn("Failed to load favorites",
					slog.Int("user_id", userID),
					slog.Any("error", err),
				)
			}
			for _, id := range ids {
				favorites[id] = true
			}
		}
	}

	out := make([]textWithFavorite, 0, len(texts))
	for i := range texts {
		out = append(out, textWithFavorite{
			Text:       *text.ToText(&texts[i]),
			IsFavorite: favorites[texts[i].ID],
		})
	}
	respond(c, http.StatusOK, out)
}

// GetText: 글 상세를 반환합니다. (GET /text/:text_id)
// user_id 쿼리가 있으면 찜 여부와 해당 유저의 개인 최고 기록을 함께 준다.
func (h *APIHandler) GetText(c *gin.Context) {
	textID, ok := h.intParam(c, "text_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	m, err := h.texts.FindByID(ctx, textID)
	if err != nil {
		h.respondDomainError(c, err, "글 조회에 실패했습니다.")
		return
	}
	if m == nil {
		respondError(c, http.StatusNotFound, "글을 찾을 수 없습니다.")
		return
	}

	data := gin.H{
		"text":        text.ToText(m),
		"is_favorite": false,
		"my_best":     nil,
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.Atoi(userIDStr); err == nil {
			fav, err := h.texts.IsFavorited(ctx, userID, textID)
			if err == nil {
				data["is_favorite"] = fav
			}
			best, err := h.results.MyBestForText(ctx, userID, textID)
			if err == nil && best != nil {
				data["my_best"] = gin.H{
					"cpm":      best.CPM,
					"wpm":      best.WPM,
					"accuracy": best.Accuracy,
					"combo":    best.Combo,
				}
			}
		}
	}

	respond(c, http.StatusOK, data)
}

// DeleteText: 글과 딸린 찜/기록을 삭제합니다. (DELETE /text/:text_id)
func (h *APIHandler) DeleteText(c *gin.Context) {
	textID, ok := h.intParam(c, "text_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	if err := h.texts.Delete(ctx, textID); err != nil {
		h.respondDomainError(c, err, "글 삭제에 실패했습니다.")
		return
	}

	h.invalidateTextBestCache(c, textID)

	respond(c, http.StatusOK, gin.H{"deleted_id": textID})
}

// toggleFavoriteRequest: 찜 토글 요청
type toggleFavoriteRequest struct {
	UserID *int `json:"user_id"`
	TextID *int `json:"text_id"`
}

// ToggleFavorite: 찜을 토글합니다. (POST /text/favorite)
func (h *APIHandler) ToggleFavorite(c *gin.Context) {
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "요청 본문을 해석할 수 없습니다: "+err.Error())
		return
	}
	if req.UserID == nil || req.TextID == nil {
		respondError(c, http.StatusBadRequest, "user_id와 text_id는 필수입니다.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	fav, err := h.texts.ToggleFavorite(ctx, *req.UserID, *req.TextID)
	if err != nil {
		h.respondDomainError(c, err, "찜 처리에 실패했습니다.")
		return
	}

	respond(c, http.StatusOK, gin.H{"is_favorite": fav})
}
