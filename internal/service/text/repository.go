package text

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/util"
	apperrors "github.com/kapu/taja-backend-go/pkg/errors"
)

// Repository: 연습 글과 찜 데이터 접근 계층
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// storeErr: 타입이 지정된 도메인 에러는 그대로 통과시키고,
// 그 외의 저장소 실패는 ServiceError로 감싼다. (HTTP 레이어에서 500으로 매핑)
func storeErr(op string, err error) error {
	if apperrors.IsNotFound(err) || apperrors.IsValidation(err) {
		return err
	}
	return apperrors.NewServiceError("text", op, err)
}

// NewRepository: 글 저장소를 생성하고 스키마를 마이그레이션한다.
func NewRepository(db *gorm.DB, logger *slog.Logger) (*Repository, error) {
	if err := db.AutoMigrate(&Model{}, &FavoriteModel{}); err != nil {
		return nil, fmt.Errorf("텍스트 스키마 마이그레이션 실패: %w", err)
	}
	return &Repository{db: db, logger: logger}, nil
}

// Create: 새 연습 글을 등록한다. 제목/본문이 비면 검증 오류를 돌려준다.
func (r *Repository) Create(ctx context.Context, m *Model) error {
	if strings.TrimSpace(m.Title) == "" {
		return apperrors.NewValidationError("title", "제목은 비울 수 없습니다")
	}
	if strings.TrimSpace(m.Content) == "" {
		return apperrors.NewValidationError("content", "본문은 비울 수 없습니다")
	}
	if strings.TrimSpace(m.Genre) == "" {
		return apperrors.NewValidationError("genre", "장르는 비울 수 없습니다")
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeErr("create", err)
	}
	r.logger.Info("연습 글 등록",
		"text_id", m.ID,
		"genre", m.Genre,
		"title", util.TruncateString(m.Title, 30))
	return nil
}

// FindByID: ID로 글을 조회한다. 없으면 (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id int) (*Model, error) {
	var m Model
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find", err)
	}
	return &m, nil
}

// All: 전체 글을 ID 오름차순으로 조회한다.
func (r *Repository) All(ctx context.Context) ([]Model, error) {
	var texts []Model
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&texts).Error; err != nil {
		return nil, storeErr("list", err)
	}
	return texts, nil
}

// ByGenre: 장르로 필터링한 글 목록을 조회한다.
func (r *Repository) ByGenre(ctx context.Context, genre string) ([]Model, error) {
	var texts []Model
	err := r.db.WithContext(ctx).
		Where("genre = ?", genre).
		Order("id ASC").
		Find(&texts).Error
	if err != nil {
		return nil, storeErr("list_by_genre", err)
	}
	return texts, nil
}

// Random: 무작위 글을 최대 limit개 조회한다. limit은 1~MaxRandomTexts로 보정한다.
func (r *Repository) Random(ctx context.Context, limit int) ([]Model, error) {
	limit = util.Max(limit, 1)
	limit = util.Min(limit, constants.QueryLimits.MaxRandomTexts)

	// RANDOM()은 PostgreSQL과 SQLite 양쪽에서 동작한다.
	var texts []Model
	err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(limit).
		Find(&texts).Error
	if err != nil {
		return nil, storeErr("random", err)
	}
	return texts, nil
}

// Delete: 글과 딸린 찜/기록을 한 트랜잭션으로 삭제한다.
func (r *Repository) Delete(ctx context.Context, id int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m Model
		if err := tx.First(&m, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFoundError("text", fmt.Sprintf("%d", id))
			}
			return fmt.Errorf("글 조회 실패: %w", err)
		}

		if err := tx.Exec("DELETE FROM favorites WHERE text_id = ?", id).Error; err != nil {
			return fmt.Errorf("찜 삭제 실패: %w", err)
		}
		if err := tx.Exec("DELETE FROM typing_results WHERE text_id = ?", id).Error; err != nil {
			return fmt.Errorf("기록 삭제 실패: %w", err)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return fmt.Errorf("글 삭제 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return storeErr("delete", err)
	}

	r.logger.Info("연습 글 삭제", "text_id", id)
	return nil
}

// ToggleFavorite: 찜을 토글한다. 토글 후 찜 상태를 돌려준다.
func (r *Repository) ToggleFavorite(ctx context.Context, userID, textID int) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCount int64
		if err := tx.Raw("SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&userCount).Error; err != nil {
			return fmt.Errorf("유저 확인 실패: %w", err)
		}
		if userCount == 0 {
			return apperrors.NewNotFoundError("user", fmt.Sprintf("%d", userID))
		}

		var textCount int64
		if err := tx.Model(&Model{}).Where("id = ?", textID).Count(&textCount).Error; err != nil {
			return fmt.Errorf("글 확인 실패: %w", err)
		}
		if textCount == 0 {
			return apperrors.NewNotFoundError("text", fmt.Sprintf("%d", textID))
		}

		var fav FavoriteModel
		err := tx.Where("user_id = ? AND text_id = ?", userID, textID).First(&fav).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if err := tx.Create(&FavoriteModel{UserID: userID, TextID: textID}).Error; err != nil {
				return fmt.Errorf("찜 등록 실패: %w", err)
			}
			favorited = true
		case err != nil:
			return fmt.Errorf("찜 조회 실패: %w", err)
		default:
			if err := tx.Delete(&fav).Error; err != nil {
				return fmt.Errorf("찜 해제 실패: %w", err)
			}
			favorited = false
		}
		return nil
	})
	if err != nil {
		return false, storeErr("toggle_favorite", err)
	}
	return favorited, nil
}

// FavoriteIDs: 유저가 찜한 글 ID 목록을 조회한다.
func (r *Repository) FavoriteIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("text_id ASC").
		Pluck("text_id", &ids).Error
	if err != nil {
		return nil, storeErr("favorite_ids", err)
	}
	return ids, nil
}

// IsFavorited: 유저가 해당 글을 찜했는지 확인한다.
func (r *Repository) IsFavorited(ctx context.Context, userID, textID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("user_id = ? AND text_id = ?", userID, textID).
		Count(&count).Error
	if err != nil {
		return false, storeErr("is_favorited", err)
	}
	return count > 0, nil
}
