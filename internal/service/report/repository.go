package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kapu/taja-backend-go/internal/constants"
	apperrors "github.com/kapu/taja-backend-go/pkg/errors"
)

const timeLayout = "2006-01-02 15:04:05"

// Repository: 테스트 리포트 데이터 접근 계층
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRepository: 리포트 저장소를 생성하고 스키마를 마이그레이션한다.
func NewRepository(db *gorm.DB, logger *slog.Logger) (*Repository, error) {
	if err := db.AutoMigrate(&ReportModel{}, &CaseModel{}, &PerfModel{}); err != nil {
		return nil, fmt.Errorf("리포트 스키마 마이그레이션 실패: %w", err)
	}
	return &Repository{db: db, logger: logger}, nil
}

// Save: 리포트 본문과 케이스/성능 상세를 한 트랜잭션으로 저장한다.
// 엔드포인트 지표의 is_satisfied는 p95 기준(500ms 미만)으로 이 자리에서 판정한다.
func (r *Repository) Save(ctx context.Context, in *Ingest) (int, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("페이로드 직렬화 실패: %w", err)
	}

	var reportID int
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rep := ReportModel{
			GitCommit:   in.GitCommit,
			TestTime:    time.Now().UTC(),
			TotalTests:  in.Total,
			PassedTests: in.Passed,
			FailedTests: in.Failed,
			IsPassed:    in.Failed == 0,
			UserCount:   in.UserCount,
			Raw:         datatypes.JSON(raw),
		}
		if err := tx.Create(&rep).Error; err != nil {
			return fmt.Errorf("리포트 저장 실패: %w", err)
		}

		for _, c := range in.CaseResults {
			row := CaseModel{
				ReportID: rep.ID,
				TestName: c.TestName,
				Status:   c.Status,
				Message:  c.Message,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("케이스 결과 저장 실패: %w", err)
			}
		}

		for _, p := range in.PerfResults {
			satisfied := true
			if p.P95Latency > 0 {
				satisfied = p.P95Latency < float64(constants.PerfThreshold.P95LatencyMs)
			}
			row := PerfModel{
				ReportID:      rep.ID,
				Method:        p.Method,
				Endpoint:      p.Endpoint,
				AvgLatency:    p.AvgLatency,
				P95Latency:    p.P95Latency,
				P99Latency:    p.P99Latency,
				MaxLatency:    p.MaxLatency,
				RPS:           p.RPS,
				TotalRequests: p.TotalRequests,
				FailCount:     p.FailCount,
				ErrorRate:     p.ErrorRate,
				IsSatisfied:   satisfied,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("성능 지표 저장 실패: %w", err)
			}
		}

		reportID = rep.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("테스트 리포트 수신",
		"report_id", reportID,
		"total", in.Total,
		"failed", in.Failed,
		"perf_rows", len(in.PerfResults))
	return reportID, nil
}

// List: 전체 리포트 요약을 최신순으로 조회한다.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	var reports []ReportModel
	err := r.db.WithContext(ctx).
		Order("test_time DESC").
		Order("id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("리포트 목록 조회 실패: %w", err)
	}

	summaries := make([]Summary, 0, len(reports))
	for _, rep := range reports {
		summaries = append(summaries, Summary{
			ReportID:  rep.ID,
			TestTime:  rep.TestTime.Format(timeLayout),
			GitCommit: rep.GitCommit,
			TestSummary: SummaryCounts{
				Total:    rep.TotalTests,
				Passed:   rep.PassedTests,
				Failed:   rep.FailedTests,
				IsPassed: rep.IsPassed,
			},
			LoadTestInfo: LoadTestSummary{UserCount: rep.UserCount},
		})
	}
	return summaries, nil
}

// Detail: 리포트 상세(케이스 + 엔드포인트 지표)를 조회한다.
func (r *Repository) Detail(ctx context.Context, reportID int) (*Detail, error) {
	var rep ReportModel
	err := r.db.WithContext(ctx).First(&rep, reportID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFoundError("report", fmt.Sprintf("%d", reportID))
	}
	if err != nil {
		return nil, fmt.Errorf("리포트 조회 실패: %w", err)
	}

	var cases []CaseModel
	err = r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("id ASC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("케이스 결과 조회 실패: %w", err)
	}

	var perfs []PerfModel
	err = r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("id ASC").
		Find(&perfs).Error
	if err != nil {
		return nil, fmt.Errorf("성능 지표 조회 실패: %w", err)
	}

	detail := Detail{
		ReportInfo: DetailInfo{
			ID:     rep.ID,
			Date:   rep.TestTime.Format(timeLayout),
			Commit: rep.GitCommit,
		},
		CaseResults: make([]CaseOutput, 0, len(cases)),
		PerfResults: make([]PerfOutput, 0, len(perfs)),
	}
	for _, c := range cases {
		detail.CaseResults = append(detail.CaseResults, CaseOutput{
			TestName: c.TestName,
			Status:   c.Status,
			Message:  c.Message,
		})
	}
	for _, p := range perfs {
		detail.PerfResults = append(detail.PerfResults, PerfOutput{
			Method:   p.Method,
			Endpoint: p.Endpoint,
			Latency: PerfLatency{
				Avg: p.AvgLatency,
				P95: p.P95Latency,
				P99: p.P99Latency,
				Max: p.MaxLatency,
			},
			Stats: PerfStats{
				RPS:           p.RPS,
				TotalRequests: p.TotalRequests,
				FailCount:     p.FailCount,
				ErrorRate:     p.ErrorRate,
			},
			IsSatisfied: p.IsSatisfied,
		})
	}
	return &detail, nil
}
