package result

import (
	"time"

	"github.com/kapu/taja-backend-go/internal/service/stats"
)

// Model: typing_results 테이블과 매핑되는 GORM 모델입니다.
type Model struct {
	ID        int       `gorm:"primaryKey;column:id"`
	UserID    *int      `gorm:"column:user_id;index"`
	TextID    int       `gorm:"column:text_id;not null;index"`
	CPM       int       `gorm:"column:cpm;not null"`
	WPM       int       `gorm:"column:wpm;not null"`
	Accuracy  float64   `gorm:"column:accuracy;not null"`
	Combo     int       `gorm:"column:combo;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("typing_results")
func (Model) TableName() string {
	return "typing_results"
}

// SubmitOutcome: 결과 제출 후 응답 페이로드
type SubmitOutcome struct {
	ResultID    int            `json:"result_id"`
	IsNewRecord bool           `json:"is_new_record"`
	Stats       stats.Snapshot `json:"-"`
}

// Record: 저장된 결과 한 건의 API 표현
type Record struct {
	ResultID  int       `json:"result_id"`
	UserID    *int      `json:"user_id"`
	TextID    int       `json:"text_id"`
	CPM       int       `json:"cpm"`
	WPM       int       `json:"wpm"`
	Accuracy  float64   `json:"accuracy"`
	Combo     int       `json:"combo"`
	CreatedAt time.Time `json:"created_at"`
}

// ToRecord: 모델에서 API 표현을 만든다.
func ToRecord(m *Model) *Record {
	if m == nil {
		return nil
	}
	return &Record{
		ResultID:  m.ID,
		UserID:    m.UserID,
		TextID:    m.TextID,
		CPM:       m.CPM,
		WPM:       m.WPM,
		Accuracy:  m.Accuracy,
		Combo:     m.Combo,
		CreatedAt: m.CreatedAt,
	}
}

// BestRecord: 특정 글의 최고 기록 (보유자 정보 포함)
type BestRecord struct {
	TopPlayer    string  `json:"top_player"`
	ProfilePic   *string `json:"profile_pic"`
	BestCPM      int     `json:"best_cpm"`
	BestWPM      int     `json:"best_wpm"`
	BestAccuracy float64 `json:"best_accuracy"`
	BestCombo    int     `json:"best_combo"`
}

// HistoryEntry: 연습 이력 한 건 (글 제목/장르 조인 포함)
type HistoryEntry struct {
	ResultID  int       `json:"result_id"`
	TextID    int       `json:"text_id"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	CPM       int       `json:"cpm"`
	WPM       int       `json:"wpm"`
	Accuracy  float64   `json:"accuracy"`
	Combo     int       `json:"combo"`
	CreatedAt time.Time `json:"created_at"`
}
