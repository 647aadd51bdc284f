package result

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/kapu/taja-backend-go/internal/constants"
	"github.com/kapu/taja-backend-go/internal/service/account"
	"github.com/kapu/taja-backend-go/internal/service/stats"
	"github.com/kapu/taja-backend-go/internal/service/text"
	apperrors "github.com/kapu/taja-backend-go/pkg/errors"
)

// Repository: 연습 결과 데이터 접근 계층.
// 결과 생성/삭제는 유저 통계 갱신과 함께 단일 트랜잭션으로 처리한다.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRepository: 결과 저장소를 생성하고 스키마를 마이그레이션한다.
func NewRepository(db *gorm.DB, logger *slog.Logger) (*Repository, error) {
	if err := db.AutoMigrate(&Model{}); err != nil {
		return nil, fmt.Errorf("결과 스키마 마이그레이션 실패: %w", err)
	}
	return &Repository{db: db, logger: logger}, nil
}

// Submit: 결과 한 건을 저장하고 유저 통계를 증분 갱신한다.
// 결과 행 삽입과 통계 반영은 같은 트랜잭션에서 이루어지며, 둘 중 하나라도
// 실패하면 전체가 롤백된다.
func (r *Repository) Submit(ctx context.Context, userID, textID int, sample stats.Sample) (*SubmitOutcome, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}

	var outcome SubmitOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user account.Model
		if err := tx.First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFoundError("user", fmt.Sprintf("%d", userID))
			}
			return fmt.Errorf("유저 조회 실패: %w", err)
		}

		var textCount int64
		if err := tx.Model(&text.Model{}).Where("id = ?", textID).Count(&textCount).Error; err != nil {
			return fmt.Errorf("글 확인 실패: %w", err)
		}
		if textCount == 0 {
			return apperrors.NewNotFoundError("text", fmt.Sprintf("%d", textID))
		}

		row := Model{
			UserID:   &userID,
			TextID:   textID,
			CPM:      sample.CPM,
			WPM:      sample.WPM,
			Accuracy: sample.Accuracy,
			Combo:    sample.Combo,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("결과 저장 실패: %w", err)
		}

		updated, isNewRecord := stats.Apply(user.Snapshot(), sample)
		user.SetSnapshot(updated)
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("통계 갱신 실패: %w", err)
		}

		outcome = SubmitOutcome{
			ResultID:    row.ID,
			IsNewRecord: isNewRecord,
			Stats:       updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("연습 결과 저장",
		"result_id", outcome.ResultID,
		"user_id", userID,
		"text_id", textID,
		"cpm", sample.CPM,
		"new_record", outcome.IsNewRecord)
	return &outcome, nil
}

// aggregateRow: 삭제 후 재계산용 집계 쿼리 결과 행
type aggregateRow struct {
	Count       int     `gorm:"column:cnt"`
	AvgAccuracy float64 `gorm:"column:avg_accuracy"`
	AvgCPM      float64 `gorm:"column:avg_cpm"`
	AvgWPM      float64 `gorm:"column:avg_wpm"`
	MaxCPM      int     `gorm:"column:max_cpm"`
	MaxWPM      int     `gorm:"column:max_wpm"`
	MaxCombo    int     `gorm:"column:max_combo"`
}

// DeleteByTriple: 결과 한 건을 삭제하고 유저 통계를 남은 결과로부터 전면 재계산한다.
// 증분 되감기는 전체 이력 없이는 정의되지 않으므로 삭제 경로는 항상 집계 쿼리를 쓴다.
func (r *Repository) DeleteByTriple(ctx context.Context, textID, userID, resultID int) (*stats.Snapshot, error) {
	var recomputed stats.Snapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Model
		err := tx.Where("id = ? AND text_id = ? AND user_id = ?", resultID, textID, userID).First(&row).Error
		if err == gorm.ErrRecordNotFound {
			return apperrors.NewNotFoundError("result", fmt.Sprintf("%d", resultID))
		}
		if err != nil {
			return fmt.Errorf("결과 조회 실패: %w", err)
		}

		if err := tx.Delete(&row).Error; err != nil {
			return fmt.Errorf("결과 삭제 실패: %w", err)
		}

		var agg aggregateRow
		err = tx.Raw(`
			SELECT COUNT(*)              AS cnt,
			       COALESCE(AVG(accuracy), 0) AS avg_accuracy,
			       COALESCE(AVG(cpm), 0)      AS avg_cpm,
			       COALESCE(AVG(wpm), 0)      AS avg_wpm,
			       COALESCE(MAX(cpm), 0)      AS max_cpm,
			       COALESCE(MAX(wpm), 0)      AS max_wpm,
			       COALESCE(MAX(combo), 0)    AS max_combo
			FROM typing_results
			WHERE user_id = ?`, userID).Scan(&agg).Error
		if err != nil {
			return fmt.Errorf("통계 집계 실패: %w", err)
		}

		var user account.Model
		if err := tx.First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFoundError("user", fmt.Sprintf("%d", userID))
			}
			return fmt.Errorf("유저 조회 실패: %w", err)
		}

		recomputed = stats.FromAggregate(stats.Aggregate{
			Count:       agg.Count,
			AvgAccuracy: agg.AvgAccuracy,
			AvgCPM:      agg.AvgCPM,
			AvgWPM:      agg.AvgWPM,
			MaxCPM:      agg.MaxCPM,
			MaxWPM:      agg.MaxWPM,
			MaxCombo:    agg.MaxCombo,
		})
		user.SetSnapshot(recomputed)
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("통계 갱신 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("연습 결과 삭제",
		"result_id", resultID,
		"user_id", userID,
		"text_id", textID,
		"remaining", recomputed.PlayCount)
	return &recomputed, nil
}

// FindByTriple: (글, 유저, 결과) 삼중 키로 결과 한 건을 조회한다. 없으면 (nil, nil).
func (r *Repository) FindByTriple(ctx context.Context, textID, userID, resultID int) (*Model, error) {
	var row Model
	err := r.db.WithContext(ctx).
		Where("id = ? AND text_id = ? AND user_id = ?", resultID, textID, userID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("결과 조회 실패: %w", err)
	}
	return &row, nil
}

// BestByText: 특정 글의 전체 최고 기록(CPM 기준)을 보유자 정보와 함께 조회한다.
// 기록이 없으면 (nil, nil).
func (r *Repository) BestByText(ctx context.Context, textID int) (*BestRecord, error) {
	var best BestRecord
	res := r.db.WithContext(ctx).Raw(`
		SELECT u.username   AS top_player,
		       u.profile_pic,
		       r.cpm        AS best_cpm,
		       r.wpm        AS best_wpm,
		       r.accuracy   AS best_accuracy,
		       r.combo      AS best_combo
		FROM typing_results r
		INNER JOIN users u ON u.id = r.user_id
		WHERE r.text_id = ?
		ORDER BY r.cpm DESC, r.id ASC
		LIMIT 1`, textID).Scan(&best)
	if res.Error != nil {
		return nil, fmt.Errorf("최고 기록 조회 실패: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &best, nil
}

// MyBestForText: 특정 유저의 특정 글 최고 기록을 조회한다. 없으면 (nil, nil).
func (r *Repository) MyBestForText(ctx context.Context, userID, textID int) (*Model, error) {
	var row Model
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND text_id = ?", userID, textID).
		Order("cpm DESC").
		Order("id ASC").
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("최고 기록 조회 실패: %w", err)
	}
	return &row, nil
}

const historySelect = `
	SELECT r.id       AS result_id,
	       r.text_id,
	       t.title,
	       t.genre,
	       r.cpm,
	       r.wpm,
	       r.accuracy,
	       r.combo,
	       r.created_at
	FROM typing_results r
	INNER JOIN typing_texts t ON t.id = r.text_id
	WHERE r.user_id = ?`

// HistoryAll: 유저의 전체 연습 이력을 최신순으로 조회한다.
func (r *Repository) HistoryAll(ctx context.Context, userID int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.WithContext(ctx).
		Raw(historySelect+" ORDER BY r.created_at DESC, r.id DESC LIMIT ?",
			userID, constants.QueryLimits.MaxHistoryEntries).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("이력 조회 실패: %w", err)
	}
	return entries, nil
}

// HistoryRecent: 유저의 최근 연습 이력을 최대 limit개 조회한다.
func (r *Repository) HistoryRecent(ctx context.Context, userID, limit int) ([]HistoryEntry, error) {
	if limit < 1 {
		limit = constants.QueryLimits.DefaultRecent
	}
	var entries []HistoryEntry
	err := r.db.WithContext(ctx).
		Raw(historySelect+" ORDER BY r.created_at DESC, r.id DESC LIMIT ?", userID, limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("이력 조회 실패: %w", err)
	}
	return entries, nil
}

// HistoryByGenre: 특정 장르 글에 대한 연습 이력을 최신순으로 조회한다.
func (r *Repository) HistoryByGenre(ctx context.Context, userID int, genre string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.WithContext(ctx).
		Raw(historySelect+" AND t.genre = ? ORDER BY r.created_at DESC, r.id DESC LIMIT ?",
			userID, genre, constants.QueryLimits.MaxHistoryEntries).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("이력 조회 실패: %w", err)
	}
	return entries, nil
}
