package text

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kapu/taja-backend-go/internal/service/account"
	apperrors "github.com/kapu/taja-backend-go/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func newTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	repo, err := NewRepository(db, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return repo, db
}

func seedText(t *testing.T, repo *Repository, genre, title, content string) *Model {
	t.Helper()

	m := &Model{Genre: genre, Title: title, Content: content}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("failed to seed text: %v", err)
	}
	return m
}

func TestCreateValidation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		model Model
	}{
		{"empty title", Model{Genre: "수필", Title: "  ", Content: "본문"}},
		{"empty content", Model{Genre: "수필", Title: "제목", Content: ""}},
		{"empty genre", Model{Genre: "", Title: "제목", Content: "본문"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.model
			err := repo.Create(ctx, &m)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateAndFindByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	author := "김작가"
	m := &Model{Genre: "소설", Title: "긴 밤", Author: &author, Content: "밤이 길었다."}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("expected assigned id")
	}

	found, err := repo.FindByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil || found.Title != "긴 밤" || found.Author == nil || *found.Author != "김작가" {
		t.Fatalf("unexpected text: %+v", found)
	}

	missing, err := repo.FindByID(ctx, 9999)
	if err != nil {
		t.Fatalf("find missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing text, got %+v", missing)
	}
}

func TestAllAndByGenre(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seedText(t, repo, "수필", "아침", "아침 글")
	seedText(t, repo, "소설", "저녁", "저녁 글")
	seedText(t, repo, "수필", "점심", "점심 글")

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 texts, got %d", len(all))
	}
	if all[0].Title != "아침" || all[2].Title != "점심" {
		t.Fatalf("expected id ascending order, got %+v", all)
	}

	essays, err := repo.ByGenre(ctx, "수필")
	if err != nil {
		t.Fatalf("by genre failed: %v", err)
	}
	if len(essays) != 2 {
		t.Fatalf("expected 2 essays, got %d", len(essays))
	}
	for _, e := range essays {
		if e.Genre != "수필" {
			t.Fatalf("unexpected genre in result: %+v", e)
		}
	}

	empty, err := repo.ByGenre(ctx, "시")
	if err != nil {
		t.Fatalf("by genre failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no poems, got %d", len(empty))
	}
}

func TestRandomClampsLimit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedText(t, repo, "수필", fmt.Sprintf("글%d", i), "본문")
	}

	got, err := repo.Random(ctx, 10)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all 3 texts, got %d", len(got))
	}

	one, err := repo.Random(ctx, 0)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("expected limit clamped to 1, got %d", len(one))
	}
}

func TestToggleFavorite(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	if err := db.AutoMigrate(&account.Model{}); err != nil {
		t.Fatalf("failed to migrate users: %v", err)
	}
	user := account.Model{Username: "tester", Email: "tester@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	txt := seedText(t, repo, "수필", "찜 대상", "본문")

	fav, err := repo.ToggleFavorite(ctx, user.ID, txt.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !fav {
		t.Fatal("expected favorited after first toggle")
	}

	ok, err := repo.IsFavorited(ctx, user.ID, txt.ID)
	if err != nil || !ok {
		t.Fatalf("expected favorited state, ok=%v err=%v", ok, err)
	}

	ids, err := repo.FavoriteIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("favorite ids failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != txt.ID {
		t.Fatalf("unexpected favorite ids: %v", ids)
	}

	fav, err = repo.ToggleFavorite(ctx, user.ID, txt.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if fav {
		t.Fatal("expected unfavorited after second toggle")
	}

	ids, err = repo.FavoriteIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("favorite ids failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty favorites, got %v", ids)
	}
}

func TestToggleFavoriteUnknownEntities(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	if err := db.AutoMigrate(&account.Model{}); err != nil {
		t.Fatalf("failed to migrate users: %v", err)
	}
	user := account.Model{Username: "tester", Email: "tester@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	txt := seedText(t, repo, "수필", "찜 대상", "본문")

	if _, err := repo.ToggleFavorite(ctx, 9999, txt.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
	if _, err := repo.ToggleFavorite(ctx, user.ID, 9999); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown text, got %v", err)
	}
}

func TestStoreFailureWrapsServiceError(t *testing.T) {
	repo, db := newTestRepo(t)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("failed to close sql db: %v", err)
	}

	_, err = repo.All(context.Background())
	if err == nil {
		t.Fatal("expected error from closed store")
	}
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected service error, got %T: %v", err, err)
	}
	if svcErr.Service != "text" || svcErr.Operation != "list" {
		t.Fatalf("unexpected service error fields: %+v", svcErr)
	}
	if apperrors.IsNotFound(err) || apperrors.IsValidation(err) {
		t.Fatalf("store failure must not look like a domain error: %v", err)
	}
}
