package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/kapu/taja-backend-go/internal/config"
	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/health"
	"github.com/kapu/taja-backend-go/internal/server"
)

// ProvideAPIAddr: API 서버가 리슨할 주소를 반환합니다.
func ProvideAPIAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%d", cfg.Server.Port)
}

// ProvideAPIServer: HTTP 서버 인스턴스를 생성합니다.
// H2C(HTTP/2 Cleartext)를 기본으로 사용하여 멀티플렉싱과 헤더 압축 이점을 제공한다.
func ProvideAPIServer(addr string, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           server.WrapH2C(router),
		ReadHeaderTimeout: constants.ServerTimeout.ReadHeader,
		ReadTimeout:       constants.ServerTimeout.Read,
		WriteTimeout:      constants.ServerTimeout.Write,
		IdleTimeout:       constants.ServerTimeout.Idle,
		MaxHeaderBytes:    constants.ServerTimeout.MaxHeaderBytes,
	}
}

// ProvideAPIRouter: 타자연습 API를 서빙하는 Gin 라우터를 설정합니다.
func ProvideAPIRouter(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	apiHandler *server.APIHandler,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(constants.ServerConfig.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(server.LoggerMiddleware(ctx, logger, "/health"))
	router.Use(cors.New(newCORSConfig(cfg)))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(server.SecurityHeadersMiddleware())

	// Health check 엔드포인트 (버전/uptime 포함)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, health.Get())
	})

	registerAPIRoutes(router, apiHandler)

	return router, nil
}

func newCORSConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = constants.CORSConfig.AllowOrigins
	if len(cfg.Server.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = constants.CORSConfig.AllowMethods
	corsConfig.AllowHeaders = constants.CORSConfig.AllowHeaders
	return corsConfig
}

func registerAPIRoutes(router *gin.Engine, h *server.APIHandler) {
	textGroup := router.Group("/text")
	{
		textGroup.POST("/add", h.AddText)
		textGroup.GET("/all", h.AllTexts)
		textGroup.GET("", h.TextsByGenre)
		textGroup.GET("/main/:limit", h.MainTexts)
		textGroup.POST("/favorite", h.ToggleFavorite)

		textGroup.POST("/results", h.SubmitResult)
		textGroup.GET("/results/best", h.BestResult)
		textGroup.GET("/results/:text_id/:user_id/:result_id", h.GetResult)
		textGroup.DELETE("/results/:text_id/:user_id/:result_id", h.DeleteResult)

		textGroup.GET("/:text_id", h.GetText)
		textGroup.DELETE("/:text_id", h.DeleteText)
	}

	userGroup := router.Group("/user")
	{
		userGroup.GET("/profile/:user_id", h.Profile)
		userGroup.GET("/ranking", h.Ranking)
		userGroup.GET("/history/all/:user_id", h.HistoryAll)
		userGroup.GET("/history/recent/:user_id", h.HistoryRecent)
		userGroup.GET("/history/genre/:user_id", h.HistoryByGenre)
		userGroup.GET("/favorites/ids/:user_id", h.FavoriteIDs)
		userGroup.DELETE("/:user_id", h.DeleteUser)
	}

	router.POST("/auth/google", h.GoogleLogin)

	adminGroup := router.Group("/admin")
	{
		adminGroup.POST("/report", h.ReceiveReport)
		adminGroup.GET("/reports", h.ListReports)
		adminGroup.GET("/reports/:report_id", h.ReportDetail)
		adminGroup.GET("/system", h.SystemStats)
	}
}
