package stats

import (
	"math"
	"testing"
)

func TestApply_FirstAttempt(t *testing.T) {
	s, newRecord := Apply(Snapshot{}, Sample{CPM: 500, WPM: 100, Accuracy: 95.5, Combo: 30})

	if s.PlayCount != 1 {
		t.Fatalf("play count: got=%d want=1", s.PlayCount)
	}
	if s.AvgAccuracy != 95.5 {
		t.Fatalf("avg accuracy: got=%v want=95.5", s.AvgAccuracy)
	}
	if s.AvgCPM != 500.0 {
		t.Fatalf("avg cpm: got=%v want=500.0", s.AvgCPM)
	}
	if s.AvgWPM != 100.0 {
		t.Fatalf("avg wpm: got=%v want=100.0", s.AvgWPM)
	}
	if s.BestCPM != 500 || s.BestWPM != 100 || s.MaxCombo != 30 {
		t.Fatalf("bests: cpm=%d wpm=%d combo=%d", s.BestCPM, s.BestWPM, s.MaxCombo)
	}
	if !newRecord {
		t.Fatalf("first combo should be a new record")
	}
}

func TestApply_SecondAttemptAverages(t *testing.T) {
	s, _ := Apply(Snapshot{}, Sample{CPM: 500, WPM: 100, Accuracy: 95.5, Combo: 30})
	s, newRecord := Apply(s, Sample{CPM: 300, WPM: 80, Accuracy: 85.0, Combo: 10})

	if s.PlayCount != 2 {
		t.Fatalf("play count: got=%d want=2", s.PlayCount)
	}
	if s.AvgAccuracy != 90.25 {
		t.Fatalf("avg accuracy: got=%v want=90.25", s.AvgAccuracy)
	}
	if s.AvgCPM != 400.0 {
		t.Fatalf("avg cpm: got=%v want=400.0", s.AvgCPM)
	}
	if s.BestCPM != 500 {
		t.Fatalf("best cpm must not decrease: got=%d", s.BestCPM)
	}
	if s.MaxCombo != 30 {
		t.Fatalf("max combo must not decrease: got=%d", s.MaxCombo)
	}
	if newRecord {
		t.Fatalf("lower combo must not flag a new record")
	}
}

func TestApply_EqualValueIsNotRecord(t *testing.T) {
	s, _ := Apply(Snapshot{}, Sample{CPM: 400, WPM: 90, Accuracy: 90, Combo: 20})
	s, newRecord := Apply(s, Sample{CPM: 400, WPM: 90, Accuracy: 90, Combo: 20})

	// 동률은 strict greater가 아니므로 신기록이 아니다.
	if newRecord {
		t.Fatalf("equal combo must not be a new record")
	}
	if s.BestCPM != 400 || s.MaxCombo != 20 {
		t.Fatalf("bests changed on equal values: cpm=%d combo=%d", s.BestCPM, s.MaxCombo)
	}
}

func TestApply_MatchesRunningMean(t *testing.T) {
	samples := []Sample{
		{CPM: 512, WPM: 101, Accuracy: 97.31, Combo: 44},
		{CPM: 233, WPM: 47, Accuracy: 81.05, Combo: 7},
		{CPM: 701, WPM: 140, Accuracy: 99.99, Combo: 120},
		{CPM: 350, WPM: 70, Accuracy: 88.4, Combo: 15},
		{CPM: 0, WPM: 0, Accuracy: 0, Combo: 0},
	}

	var s Snapshot
	var sumAcc, sumCPM, sumWPM float64
	maxCPM, maxWPM, maxCombo := 0, 0, 0

	for i, m := range samples {
		s, _ = Apply(s, m)
		sumAcc += m.Accuracy
		sumCPM += float64(m.CPM)
		sumWPM += float64(m.WPM)
		maxCPM = max(maxCPM, m.CPM)
		maxWPM = max(maxWPM, m.WPM)
		maxCombo = max(maxCombo, m.Combo)

		n := float64(i + 1)
		// 증분 평균은 매 단계 round2를 거치므로 실제 평균과 1회 반올림 오차 안에서 일치해야 한다.
		if diff := math.Abs(s.AvgAccuracy - sumAcc/n); diff > 0.01*n {
			t.Fatalf("step %d: avg accuracy drifted: got=%v mean=%v", i, s.AvgAccuracy, sumAcc/n)
		}
		if s.BestCPM != maxCPM || s.BestWPM != maxWPM || s.MaxCombo != maxCombo {
			t.Fatalf("step %d: running maxima mismatch", i)
		}
		if s.PlayCount != i+1 {
			t.Fatalf("step %d: play count=%d", i, s.PlayCount)
		}
	}
}

func TestScore_Formula(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want int
	}{
		{"zero", Snapshot{}, 0},
		{
			// 500*0.5 + 95.5*5 + 500*0.2 + 30*0.1 + 0 = 250+477.5+100+3 = 830.5 -> 830
			"first attempt",
			Snapshot{PlayCount: 1, BestCPM: 500, AvgAccuracy: 95.5, AvgCPM: 500, MaxCombo: 30},
			830,
		},
		{
			// 보너스 상한: 1000회 플레이라도 +50까지만
			"play bonus capped",
			Snapshot{PlayCount: 1000, BestCPM: 100, AvgAccuracy: 0, AvgCPM: 0, MaxCombo: 0},
			100,
		},
		{
			// 600*0.5 + 90.25*5 + 400*0.2 + 30*0.1 + 2 = 300+451.25+80+3+2 = 836.25 -> 836
			"truncate once at the end",
			Snapshot{PlayCount: 20, BestCPM: 600, AvgAccuracy: 90.25, AvgCPM: 400, MaxCombo: 30},
			836,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.s); got != tt.want {
				t.Fatalf("score: got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestScore_NonNegative(t *testing.T) {
	snapshots := []Snapshot{
		{},
		{PlayCount: 3, AvgAccuracy: 0.01},
		{PlayCount: 9, BestCPM: 1, MaxCombo: 1},
	}
	for _, s := range snapshots {
		if got := Score(s); got < 0 {
			t.Fatalf("score must be non-negative: got=%d for %+v", got, s)
		}
	}
}

func TestFromAggregate_Empty(t *testing.T) {
	s := FromAggregate(Aggregate{Count: 0})

	if s != (Snapshot{}) {
		t.Fatalf("empty aggregate must reset everything to zero: %+v", s)
	}
}

func TestFromAggregate_RoundsAndScores(t *testing.T) {
	s := FromAggregate(Aggregate{
		Count:       3,
		AvgAccuracy: 90.333333,
		AvgCPM:      411.666666,
		AvgWPM:      82.5,
		MaxCPM:      520,
		MaxWPM:      110,
		MaxCombo:    41,
	})

	if s.AvgAccuracy != 90.33 {
		t.Fatalf("avg accuracy rounding: got=%v want=90.33", s.AvgAccuracy)
	}
	if s.AvgCPM != 411.67 {
		t.Fatalf("avg cpm rounding: got=%v want=411.67", s.AvgCPM)
	}
	if s.PlayCount != 3 || s.BestCPM != 520 || s.BestWPM != 110 || s.MaxCombo != 41 {
		t.Fatalf("aggregate fields not carried: %+v", s)
	}
	if s.RankingScore != Score(s) {
		t.Fatalf("ranking score not recomputed: got=%d want=%d", s.RankingScore, Score(s))
	}
}

func TestFromAggregate_Idempotent(t *testing.T) {
	agg := Aggregate{Count: 2, AvgAccuracy: 90.25, AvgCPM: 400, AvgWPM: 90, MaxCPM: 500, MaxWPM: 100, MaxCombo: 30}

	first := FromAggregate(agg)
	second := FromAggregate(agg)
	if first != second {
		t.Fatalf("recompute must be idempotent: first=%+v second=%+v", first, second)
	}
}

func TestSample_Validate(t *testing.T) {
	valid := Sample{CPM: 500, WPM: 100, Accuracy: 95.5, Combo: 30}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	invalid := []Sample{
		{CPM: -1, Accuracy: 50},
		{WPM: -1, Accuracy: 50},
		{Combo: -1, Accuracy: 50},
		{Accuracy: -0.1},
		{Accuracy: 100.1},
	}
	for _, m := range invalid {
		if err := m.Validate(); err == nil {
			t.Fatalf("invalid sample accepted: %+v", m)
		}
	}
}
