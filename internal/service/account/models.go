package account

import (
	"github.com/kapu/taja-backend-go/internal/service/stats"
)

// Model: users 테이블과 매핑되는 GORM 모델입니다.
// 통계 컬럼들은 stats.Snapshot과 1:1로 대응한다.
type Model struct {
	ID         int     `gorm:"primaryKey;column:id"`
	Username   string  `gorm:"uniqueIndex;column:username;size:80;not null"`
	Email      string  `gorm:"uniqueIndex;column:email;size:120;not null"`
	ProfilePic *string `gorm:"column:profile_pic;size:200"`
	IsAdmin    bool    `gorm:"column:is_admin;not null;default:false"`

	PlayCount    int     `gorm:"column:play_count;not null;default:0"`
	MaxCombo     int     `gorm:"column:max_combo;not null;default:0"`
	BestCPM      int     `gorm:"column:best_cpm;not null;default:0"`
	BestWPM      int     `gorm:"column:best_wpm;not null;default:0"`
	AvgAccuracy  float64 `gorm:"column:avg_accuracy;not null;default:0"`
	AvgCPM       float64 `gorm:"column:avg_cpm;not null;default:0"`
	AvgWPM       float64 `gorm:"column:avg_wpm;not null;default:0"`
	RankingScore int     `gorm:"column:ranking_score;not null;default:0"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("users")
func (Model) TableName() string {
	return "users"
}

// Snapshot: 통계 컬럼들을 stats 엔진 입력 형태로 꺼낸다.
func (m *Model) Snapshot() stats.Snapshot {
	return stats.Snapshot{
		PlayCount:    m.PlayCount,
		MaxCombo:     m.MaxCombo,
		BestCPM:      m.BestCPM,
		BestWPM:      m.BestWPM,
		AvgAccuracy:  m.AvgAccuracy,
		AvgCPM:       m.AvgCPM,
		AvgWPM:       m.AvgWPM,
		RankingScore: m.RankingScore,
	}
}

// SetSnapshot: stats 엔진이 계산한 통계를 모델에 반영한다.
func (m *Model) SetSnapshot(s stats.Snapshot) {
	m.PlayCount = s.PlayCount
	m.MaxCombo = s.MaxCombo
	m.BestCPM = s.BestCPM
	m.BestWPM = s.BestWPM
	m.AvgAccuracy = s.AvgAccuracy
	m.AvgCPM = s.AvgCPM
	m.AvgWPM = s.AvgWPM
	m.RankingScore = s.RankingScore
}

// Account: API 응답용 계정 정보
type Account struct {
	UserID       int     `json:"user_id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	ProfilePic   *string `json:"profile_pic"`
	IsAdmin      bool    `json:"is_admin"`
	RankingScore int     `json:"ranking_score"`
}

// Stats: API 응답용 통계 정보
type Stats struct {
	PlayCount   int     `json:"play_count"`
	MaxCombo    int     `json:"max_combo"`
	AvgAccuracy float64 `json:"avg_accuracy"`
	BestCPM     int     `json:"best_cpm"`
	AvgCPM      float64 `json:"avg_cpm"`
	BestWPM     int     `json:"best_wpm"`
	AvgWPM      float64 `json:"avg_wpm"`
}

// ToAccount: 모델에서 API 응답용 계정 정보를 만든다.
func ToAccount(m *Model) *Account {
	if m == nil {
		return nil
	}
	return &Account{
		UserID:       m.ID,
		Username:     m.Username,
		Email:        m.Email,
		ProfilePic:   m.ProfilePic,
		IsAdmin:      m.IsAdmin,
		RankingScore: m.RankingScore,
	}
}

// ToStats: 모델에서 API 응답용 통계 정보를 만든다.
func ToStats(m *Model) *Stats {
	if m == nil {
		return nil
	}
	return &Stats{
		PlayCount:   m.PlayCount,
		MaxCombo:    m.MaxCombo,
		AvgAccuracy: m.AvgAccuracy,
		BestCPM:     m.BestCPM,
		AvgCPM:      m.AvgCPM,
		BestWPM:     m.BestWPM,
		AvgWPM:      m.AvgWPM,
	}
}
