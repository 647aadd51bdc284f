package account

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"github.com/kapu/taja-backend-go/pkg/errors"
)

// Repository: 유저 계정 및 통계 컬럼에 대한 데이터베이스 접근을 담당하는 저장소
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRepository: 새로운 Repository 인스턴스를 생성하고 users 테이블을 준비한다.
func NewRepository(db *gorm.DB, logger *slog.Logger) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := db.AutoMigrate(&Model{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	return &Repository{db: db, logger: logger}, nil
}

// FindByID: ID로 유저를 조회한다. 존재하지 않으면 (nil, nil)을 반환한다.
func (r *Repository) FindByID(ctx context.Context, id int) (*Model, error) {
	var m Model
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return &m, nil
}

// FindByEmail: 이메일로 유저를 조회한다. 존재하지 않으면 (nil, nil)을 반환한다.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Model, error) {
	var m Model
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &m, nil
}

// UsernameExists: 표시 이름이 이미 사용 중인지 확인한다.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Model{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count username: %w", err)
	}
	return count > 0, nil
}

// Create: 신규 유저 레코드를 생성한다.
func (r *Repository) Create(ctx context.Context, m *Model) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateProfilePic: 아바타 URL을 갱신한다. (재로그인 시 최신 구글 프로필 반영)
func (r *Repository) UpdateProfilePic(ctx context.Context, id int, profilePic *string) error {
	err := r.db.WithContext(ctx).Model(&Model{}).Where("id = ?", id).
		Update("profile_pic", profilePic).Error
	if err != nil {
		return fmt.Errorf("failed to update profile_pic: %w", err)
	}
	return nil
}

// Delete: 유저와 유저 소유의 연습 결과/찜 관계를 한 트랜잭션으로 삭제한다.
// 대상이 없으면 NotFoundError를 반환한다.
func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m Model
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFoundError("user", strconv.Itoa(id))
			}
			return fmt.Errorf("failed to query user for delete: %w", err)
		}

		if err := tx.Exec("DELETE FROM favorites WHERE user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete favorites of user: %w", err)
		}
		if err := tx.Exec("DELETE FROM typing_results WHERE user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete results of user: %w", err)
		}
		if err := tx.Delete(&Model{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		r.logger.Info("User deleted",
			slog.Int("user_id", id),
			slog.String("username", m.Username),
		)
		return nil
	})
}

// TopByRankingScore: 랭킹 점수 내림차순으로 상위 limit명을 조회한다.
// 동점일 때는 ID 오름차순으로 순서를 고정한다.
func (r *Repository) TopByRankingScore(ctx context.Context, limit int) ([]Model, error) {
	var users []Model
	err := r.db.WithContext(ctx).
		Order("ranking_score DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	return users, nil
}
