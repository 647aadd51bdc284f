package report

import (
	"time"

	"gorm.io/datatypes"
)

// ReportModel: test_reports 테이블과 매핑되는 GORM 모델.
// Raw에는 수신한 페이로드 원본을 그대로 보존해 사후 분석에 쓴다.
type ReportModel struct {
	ID          int            `gorm:"primaryKey;column:id"`
	GitCommit   *string        `gorm:"column:git_commit;size:100"`
	TestTime    time.Time      `gorm:"column:test_time;not null"`
	TotalTests  int            `gorm:"column:total_tests;not null;default:0"`
	PassedTests int            `gorm:"column:passed_tests;not null;default:0"`
	FailedTests int            `gorm:"column:failed_tests;not null;default:0"`
	IsPassed    bool           `gorm:"column:is_passed;not null;default:false"`
	UserCount   int            `gorm:"column:user_count;not null;default:0"`
	Raw         datatypes.JSON `gorm:"column:raw"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("test_reports")
func (ReportModel) TableName() string {
	return "test_reports"
}

// CaseModel: 개별 테스트 케이스 결과 (test_case_results)
type CaseModel struct {
	ID       int     `gorm:"primaryKey;column:id"`
	ReportID int     `gorm:"column:report_id;not null;index"`
	TestName string  `gorm:"column:test_name;size:200;not null"`
	Status   string  `gorm:"column:status;size:20;not null"`
	Message  *string `gorm:"column:message;type:text"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("test_case_results")
func (CaseModel) TableName() string {
	return "test_case_results"
}

// PerfModel: 엔드포인트별 부하 테스트 지표 (api_performances)
type PerfModel struct {
	ID            int     `gorm:"primaryKey;column:id"`
	ReportID      int     `gorm:"column:report_id;not null;index"`
	Method        string  `gorm:"column:method;size:10;not null"`
	Endpoint      string  `gorm:"column:endpoint;size:200;not null"`
	AvgLatency    float64 `gorm:"column:avg_latency;not null;default:0"`
	P95Latency    float64 `gorm:"column:p95_latency;not null;default:0"`
	P99Latency    float64 `gorm:"column:p99_latency;not null;default:0"`
	MaxLatency    float64 `gorm:"column:max_latency;not null;default:0"`
	RPS           float64 `gorm:"column:rps;not null;default:0"`
	TotalRequests int     `gorm:"column:total_requests;not null;default:0"`
	FailCount     int     `gorm:"column:fail_count;not null;default:0"`
	ErrorRate     float64 `gorm:"column:error_rate;not null;default:0"`
	IsSatisfied   bool    `gorm:"column:is_satisfied;not null;default:true"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("api_performances")
func (PerfModel) TableName() string {
	return "api_performances"
}

// CaseInput: 수신 페이로드의 테스트 케이스 한 건
type CaseInput struct {
	TestName string  `json:"test_name"`
	Status   string  `json:"status"`
	Message  *string `json:"message"`
}

// PerfInput: 수신 페이로드의 엔드포인트 지표 한 건
type PerfInput struct {
	Method        string  `json:"method"`
	Endpoint      string  `json:"endpoint"`
	AvgLatency    float64 `json:"avg_latency"`
	P95Latency    float64 `json:"p95_latency"`
	P99Latency    float64 `json:"p99_latency"`
	MaxLatency    float64 `json:"max_latency"`
	RPS           float64 `json:"rps"`
	TotalRequests int     `json:"total_requests"`
	FailCount     int     `json:"fail_count"`
	ErrorRate     float64 `json:"error_rate"`
}

// Ingest: 통합 리포트 수신 페이로드
type Ingest struct {
	GitCommit   *string     `json:"git_commit"`
	Total       int         `json:"total"`
	Passed      int         `json:"passed"`
	Failed      int         `json:"failed"`
	UserCount   int         `json:"user_count"`
	CaseResults []CaseInput `json:"case_results"`
	PerfResults []PerfInput `json:"perf_results"`
}

// Summary: 리포트 목록 한 건의 API 표현
type Summary struct {
	ReportID     int             `json:"report_id"`
	TestTime     string          `json:"test_time"`
	GitCommit    *string         `json:"git_commit"`
	TestSummary  SummaryCounts   `json:"summary"`
	LoadTestInfo LoadTestSummary `json:"load_test_info"`
}

// SummaryCounts: 테스트 통과/실패 요약
type SummaryCounts struct {
	Total    int  `json:"total"`
	Passed   int  `json:"passed"`
	Failed   int  `json:"failed"`
	IsPassed bool `json:"is_passed"`
}

// LoadTestSummary: 부하 테스트 설정 요약
type LoadTestSummary struct {
	UserCount int `json:"user_count"`
}

// Detail: 리포트 상세의 API 표현
type Detail struct {
	ReportInfo  DetailInfo   `json:"report_info"`
	CaseResults []CaseOutput `json:"case_results"`
	PerfResults []PerfOutput `json:"performance_results"`
}

// DetailInfo: 상세 응답의 리포트 머리 정보
type DetailInfo struct {
	ID     int     `json:"id"`
	Date   string  `json:"date"`
	Commit *string `json:"commit"`
}

// CaseOutput: 상세 응답의 테스트 케이스 한 건
type CaseOutput struct {
	TestName string  `json:"test_name"`
	Status   string  `json:"status"`
	Message  *string `json:"message"`
}

// PerfOutput: 상세 응답의 엔드포인트 지표 한 건
type PerfOutput struct {
	Method      string      `json:"method"`
	Endpoint    string      `json:"endpoint"`
	Latency     PerfLatency `json:"latency"`
	Stats       PerfStats   `json:"stats"`
	IsSatisfied bool        `json:"is_satisfied"`
}

// PerfLatency: 지연 시간 묶음 (ms)
type PerfLatency struct {
	Avg float64 `json:"avg"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

// PerfStats: 처리량/실패 묶음
type PerfStats struct {
	RPS           float64 `json:"rps"`
	TotalRequests int     `json:"total_requests"`
	FailCount     int     `json:"fail_count"`
	ErrorRate     float64 `json:"error_rate"`
}
