// Package stats: 유저 통계 집계 엔진.
// 결과 제출 시의 증분 갱신(Apply)과 삭제 후의 전면 재계산(FromAggregate),
// 그리고 두 경로 모두에서 쓰이는 랭킹 점수 산식(Score)을 순수 함수로 제공한다.
// DB 접근은 하지 않는다. 트랜잭션 안에서 이 함수들을 호출하고 영속화하는 것은 호출부 책임이다.
package stats

import (
	"github.com/kapu/taja-backend-go/internal/util"
	"github.com/kapu/taja-backend-go/pkg/errors"
)

// 랭킹 점수 가중치.
// 최고 CPM이 지배 항목이고, 정확도는 값 범위(0~100)가 CPM(200~900대)보다 좁아서
// 포인트당 가중치를 크게 준다. 플레이 보너스는 순수 반복 플레이가 실력 점수를
// 넘어서지 못하도록 50점에서 상한을 둔다.
const (
	weightBestCPM     = 0.5
	weightAvgAccuracy = 5.0
	weightAvgCPM      = 0.2
	weightMaxCombo    = 0.1
	playBonusDivisor  = 10
	playBonusCap      = 50
)

// Snapshot: 한 유저의 통계 필드 묶음. users 테이블의 통계 컬럼과 1:1로 대응한다.
type Snapshot struct {
	PlayCount    int
	MaxCombo     int
	BestCPM      int
	BestWPM      int
	AvgAccuracy  float64
	AvgCPM       float64
	AvgWPM       float64
	RankingScore int
}

// Sample: 제출된 연습 결과 한 건의 수치
type Sample struct {
	CPM      int
	WPM      int
	Combo    int
	Accuracy float64
}

// Validate: 제출 수치의 범위를 검증한다.
func (m Sample) Validate() error {
	if m.CPM < 0 {
		return errors.NewValidationError("cpm", "must not be negative")
	}
	if m.WPM < 0 {
		return errors.NewValidationError("wpm", "must not be negative")
	}
	if m.Combo < 0 {
		return errors.NewValidationError("combo", "must not be negative")
	}
	if m.Accuracy < 0 || m.Accuracy > 100 {
		return errors.NewValidationError("accuracy", "must be between 0 and 100")
	}
	return nil
}

// Apply: 새 연습 결과 한 건을 누적 평균 공식으로 통계에 반영한다.
// new_avg = round((old_avg*n0 + v) / n1, 2). 최고 기록은 strict greater일 때만 교체되고,
// 콤보 신기록 여부를 함께 반환한다. 랭킹 점수는 반영 후 값으로 재계산된다.
func Apply(s Snapshot, m Sample) (Snapshot, bool) {
	oldCount := s.PlayCount
	s.PlayCount++
	newCount := s.PlayCount

	s.AvgAccuracy = incrementalMean(s.AvgAccuracy, oldCount, m.Accuracy, newCount)
	s.AvgCPM = incrementalMean(s.AvgCPM, oldCount, float64(m.CPM), newCount)
	s.AvgWPM = incrementalMean(s.AvgWPM, oldCount, float64(m.WPM), newCount)

	isNewComboRecord := false
	if m.Combo > s.MaxCombo {
		s.MaxCombo = m.Combo
		isNewComboRecord = true
	}
	if m.CPM > s.BestCPM {
		s.BestCPM = m.CPM
	}
	if m.WPM > s.BestWPM {
		s.BestWPM = m.WPM
	}

	s.RankingScore = Score(s)
	return s, isNewComboRecord
}

// Aggregate: 남아있는 전체 결과에 대한 단일 집계 쿼리(COUNT/AVG/MAX)의 행
type Aggregate struct {
	Count       int
	AvgAccuracy float64
	AvgCPM      float64
	AvgWPM      float64
	MaxCPM      int
	MaxWPM      int
	MaxCombo    int
}

// FromAggregate: 집계 결과로부터 통계를 전면 재구성한다. (결과 삭제 후 경로)
// 평균/최대의 증분 "되감기"는 전체 이력 없이는 정의되지 않으므로, 삭제 후에는
// 항상 이 경로로 정확한 값을 다시 만든다. 남은 결과가 없으면 모든 필드가 0이 된다.
func FromAggregate(a Aggregate) Snapshot {
	if a.Count <= 0 {
		return Snapshot{}
	}

	s := Snapshot{
		PlayCount:   a.Count,
		MaxCombo:    a.MaxCombo,
		BestCPM:     a.MaxCPM,
		BestWPM:     a.MaxWPM,
		AvgAccuracy: util.Round2(a.AvgAccuracy),
		AvgCPM:      util.Round2(a.AvgCPM),
		AvgWPM:      util.Round2(a.AvgWPM),
	}
	s.RankingScore = Score(s)
	return s
}

// Score: 유저 통계에서 단일 랭킹 점수를 유도한다.
// 항별 반올림 없이 합산 후 마지막에 한 번만 정수로 내림(절사)한다.
func Score(s Snapshot) int {
	playBonus := util.Min(s.PlayCount/playBonusDivisor, playBonusCap)

	score := float64(s.BestCPM)*weightBestCPM +
		s.AvgAccuracy*weightAvgAccuracy +
		s.AvgCPM*weightAvgCPM +
		float64(s.MaxCombo)*weightMaxCombo +
		float64(playBonus)

	return int(score)
}

func incrementalMean(oldAvg float64, oldCount int, value float64, newCount int) float64 {
	return util.Round2((oldAvg*float64(oldCount) + value) / float64(newCount))
}
