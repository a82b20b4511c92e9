package watcher

import (
	"time"

	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/shopspring/decimal"
)

// Stage 상품 처리 파이프라인의 단계
type Stage string

const (
	StageValidate Stage = "validate"
	StageResolve  Stage = "resolve"
	StagePersist  Stage = "persist"
	StageEvaluate Stage = "evaluate"
	StageNotify   Stage = "notify"
)

// ProductOutcome 한 상품에 대한 이번 주기의 처리 결과
type ProductOutcome int

const (
	// OutcomeCompleted 파이프라인을 끝까지 수행했습니다. 알림 여부는 Alerted로 구분합니다.
	OutcomeCompleted ProductOutcome = iota

	// OutcomeSkipped 전제 조건이 충족되지 않아 중간에 멈췄습니다(데이터 문제).
	OutcomeSkipped

	// OutcomeFailed 협력 서비스 호출이 실패했거나 처리 중 panic이 발생했습니다.
	OutcomeFailed
)

var productOutcomeNames = [...]string{
	OutcomeCompleted: "completed",
	OutcomeSkipped:   "skipped",
	OutcomeFailed:    "failed",
}

func (o ProductOutcome) String() string {
	if o < 0 || int(o) >= len(productOutcomeNames) {
		return "unknown"
	}
	return productOutcomeNames[o]
}

// ProductResult 상품 하나의 처리 결과
type ProductResult struct {
	ProductID string

	// Stage 마지막으로 도달한 단계
	Stage   Stage
	Outcome ProductOutcome
	Reason  contract.Reason
	Err     error

	// Price 조회에 성공한 경우의 현재 가격
	Price decimal.NullDecimal

	// Persisted 현재 가격 기록 성공 여부. 기록에 실패해도 알림 판정은 계속합니다.
	Persisted  bool
	PersistErr error

	Alerted bool
}

// SweepReport 한 주기의 처리 결과 요약
type SweepReport struct {
	SweepID    string
	StartedAt  time.Time
	FinishedAt time.Time

	// CatalogErr 카탈로그 조회 실패 원인. 실패한 주기는 처리할 상품이 없는 주기로 취급합니다.
	CatalogErr error

	// Interrupted 종료 신호로 일부 상품을 처리하지 못했습니다.
	Interrupted bool

	Fetched   int
	Processed int
	Updated   int
	Alerted   int
	Skipped   int
	Failed    int

	Results []ProductResult
}

func (r *SweepReport) add(result ProductResult) {
	r.Processed++
	if result.Persisted {
		r.Updated++
	}
	if result.Alerted {
		r.Alerted++
	}

	switch result.Outcome {
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}

	r.Results = append(r.Results, result)
}

// Duration 주기 수행 시간
func (r *SweepReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
