package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kapu/taja-backend-go/internal/service/account"
	"github.com/kapu/taja-backend-go/internal/service/cache"
	"github.com/kapu/taja-backend-go/internal/service/report"
	"github.com/kapu/taja-backend-go/internal/service/result"
	"github.com/kapu/taja-backend-go/internal/service/stats"
	"github.com/kapu/taja-backend-go/internal/service/system"
	"github.com/kapu/taja-backend-go/internal/service/text"
)

const testInternalKey = "test-sync-key"

type fakeVerifier struct {
	claims *account.Claims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*account.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	accounts *account.Repository
	texts    *text.Repository
	results  *result.Repository
	reports  *report.Repository
	verifier *fakeVerifier
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, cacheSvc *cache.Service) *testEnv {
	t.Helper()

	dbName := strings.NewReplacer("/", "_", " ", "_", ":", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := newTestLogger()
	accounts, err := account.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("failed to create account repository: %v", err)
	}
	texts, err := text.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("failed to create text repository: %v", err)
	}
	results, err := result.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("failed to create result repository: %v", err)
	}
	reports, err := report.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("failed to create report repository: %v", err)
	}

	verifier := &fakeVerifier{}
	authSvc := account.NewService(accounts, verifier, testInternalKey, logger)

	handler := NewAPIHandler(accounts, authSvc, texts, results, reports, cacheSvc, system.NewCollector(), logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	textGroup := router.Group("/text")
	textGroup.POST("/add", handler.AddText)
	textGroup.GET("/all", handler.AllTexts)
	textGroup.GET("", handler.TextsByGenre)
	textGroup.GET("/main/:limit", handler.MainTexts)
	textGroup.POST("/favorite", handler.ToggleFavorite)
	textGroup.POST("/results", handler.SubmitResult)
	textGroup.GET("/results/best", handler.BestResult)
	textGroup.GET("/results/:text_id/:user_id/:result_id", handler.GetResult)
	textGroup.DELETE("/results/:text_id/:user_id/:result_id", handler.DeleteResult)
	textGroup.GET("/:text_id", handler.GetText)
	textGroup.DELETE("/:text_id", handler.DeleteText)

	userGroup := router.Group("/user")
	userGroup.GET("/profile/:user_id", handler.Profile)
	userGroup.GET("/ranking", handler.Ranking)
	userGroup.GET("/history/all/:user_id", handler.HistoryAll)
	userGroup.GET("/history/recent/:user_id", handler.HistoryRecent)
	userGroup.GET("/history/genre/:user_id", handler.HistoryByGenre)
	userGroup.GET("/favorites/ids/:user_id", handler.FavoriteIDs)
	userGroup.DELETE("/:user_id", handler.DeleteUser)

	router.POST("/auth/google", handler.GoogleLogin)

	adminGroup := router.Group("/admin")
	adminGroup.POST("/report", handler.ReceiveReport)
	adminGroup.GET("/reports", handler.ListReports)
	adminGroup.GET("/reports/:report_id", handler.ReportDetail)
	adminGroup.GET("/system", handler.SystemStats)

	return &testEnv{
		router:   router,
		db:       db,
		accounts: accounts,
		texts:    texts,
		results:  results,
		reports:  reports,
		verifier: verifier,
	}
}

func (e *testEnv) seedUser(t *testing.T, username string) *account.Model {
	t.Helper()

	m := &account.Model{Username: username, Email: username + "@example.com"}
	if err := e.accounts.Create(context.Background(), m); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return m
}

func (e *testEnv) seedText(t *testing.T, genre, title string) *text.Model {
	t.Helper()

	m := &text.Model{Genre: genre, Title: title, Content: "본문"}
	if err := e.texts.Create(context.Background(), m); err != nil {
		t.Fatalf("failed to seed text: %v", err)
	}
	return m
}

func (e *testEnv) seedResult(t *testing.T, userID, textID int, sample stats.Sample) *result.SubmitOutcome {
	t.Helper()

	out, err := e.results.Submit(context.Background(), userID, textID, sample)
	if err != nil {
		t.Fatalf("failed to seed result: %v", err)
	}
	return out
}

// do: 요청을 보내고 공통 규격 응답을 해석한다.
func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

// newMiniCache: miniredis를 백엔드로 쓰는 캐시 서비스를 만든다.
func newMiniCache(t *testing.T) *cache.Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	host, portStr, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("failed to split host/port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("failed to parse port: %v", err)
	}

	svc, err := cache.NewCacheService(cache.Config{
		Host:         host,
		Port:         port,
		DisableCache: true, // miniredis는 client-side caching 미지원
	}, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create cache service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

// dataMap: envelope의 data를 맵으로 꺼낸다.
func dataMap(t *testing.T, env envelope) map[string]any {
	t.Helper()

	m, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is not an object: %T %v", env.Data, env.Data)
	}
	return m
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, env envelope, want int) {
	t.Helper()

	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
	if want < 400 && !env.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if want >= 400 {
		if env.Success || env.Error == nil {
			t.Fatalf("expected error envelope, got %s", rec.Body.String())
		}
		if env.Error.Code == nil || *env.Error.Code != want {
			t.Fatalf("error code mismatch, got %s", rec.Body.String())
		}
	}
}
