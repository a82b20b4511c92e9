// Package watcher 카탈로그의 상품 가격을 주기적으로 조회하고, 목표 가격에 도달하면 알림을 보내는 감시 루프를 제공합니다.
//
// 한 주기는 카탈로그 조회 후 상품마다 가격 조회, 가격 기록, 알림 판정, 알림 발송을 순서대로 수행합니다.
// 상품은 카탈로그가 반환한 순서대로 하나씩 처리하며, 한 상품의 실패는 다른 상품에 영향을 주지 않습니다.
package watcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkkaiser/price-watcher/internal/config"
	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/pkg/cronx"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const component = "watcher.service"

// Service 가격 감시 루프
type Service struct {
	catalog  contract.Catalog
	resolver contract.PriceResolver
	notifier contract.Notifier
	reporter contract.OperatorReporter

	schedule  cron.Schedule
	maxCycles int

	now func() time.Time

	state atomic.Int32

	running   bool
	runningMu sync.Mutex

	// done 루프 고루틴이 끝나면 닫힌다.
	done chan struct{}
}

var _ service.Service = (*Service)(nil)

// Option Service 생성 옵션
type Option func(*Service)

// WithSchedule 설정으로 만든 스케줄 대신 s를 사용합니다.
func WithSchedule(schedule cron.Schedule) Option {
	return func(s *Service) {
		s.schedule = schedule
	}
}

// WithOperatorReporter 카탈로그 장애와 복구를 운영자에게 알리는 reporter를 지정합니다.
func WithOperatorReporter(reporter contract.OperatorReporter) Option {
	return func(s *Service) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// NewService 새로운 감시 서비스를 생성합니다. 주기 설정(Interval, TimeSpec)으로 스케줄을 만들 수 없으면 에러를 반환합니다.
func NewService(sweep config.SweepConfig, catalog contract.Catalog, resolver contract.PriceResolver, notifier contract.Notifier, opts ...Option) (*Service, error) {
	if catalog == nil || resolver == nil || notifier == nil {
		return nil, apperrors.New(apperrors.Internal, "감시 서비스의 협력 객체(catalog, resolver, notifier)는 필수입니다")
	}

	s := &Service{
		catalog:   catalog,
		resolver:  resolver,
		notifier:  notifier,
		reporter:  nopReporter{},
		maxCycles: sweep.MaxCycles,
		now:       time.Now,
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.schedule == nil {
		schedule, err := cronx.NewSchedule(sweep.TimeSpec, sweep.IntervalDuration())
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, "감시 주기 스케줄을 생성할 수 없습니다")
		}
		s.schedule = schedule
	}

	return s, nil
}

// State 감시 루프의 현재 상태를 반환합니다.
func (s *Service) State() State {
	return State(s.state.Load())
}

func (s *Service) setState(state State) {
	s.state.Store(int32(state))
}

// Done 감시 루프가 끝나면(종료 신호 또는 MaxCycles 도달) 닫히는 채널을 반환합니다.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Start 감시 루프 고루틴을 시작합니다. serviceStopCtx가 취소되면 진행 중인 상품 단계가 끝난 뒤 종료합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("감시 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"max_cycles": s.maxCycles,
	}).Info("서비스 시작: 가격 감시 루프를 시작합니다")

	go func() {
		defer serviceStopWG.Done()
		defer close(s.done)

		s.run(serviceStopCtx)
	}()

	return nil
}

func (s *Service) run(ctx context.Context) {
	defer s.setState(StateStopped)

	for cycle := 1; ; cycle++ {
		s.RunSweep(ctx)

		if ctx.Err() != nil {
			applog.WithComponent(component).Info("종료 신호를 수신하여 감시 루프를 종료합니다")
			return
		}

		if s.maxCycles > 0 && cycle >= s.maxCycles {
			applog.WithComponentAndFields(component, applog.Fields{
				"cycles": cycle,
			}).Info("최대 주기 수에 도달하여 감시 루프를 종료합니다")
			return
		}

		// 다음 시각은 주기가 끝난 뒤에 계산하므로 주기가 겹치지 않는다.
		s.setState(StateSleeping)

		now := s.now()
		delay := max(s.schedule.Next(now).Sub(now), 0)

		applog.WithComponentAndFields(component, applog.Fields{
			"delay": delay.String(),
		}).Debug("다음 감시 주기까지 대기합니다")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			applog.WithComponent(component).Info("종료 신호를 수신하여 감시 루프를 종료합니다")
			return

		case <-timer.C:
		}
	}
}

// RunSweep 한 주기를 동기적으로 수행하고 결과를 반환합니다.
func (s *Service) RunSweep(ctx context.Context) SweepReport {
	report := SweepReport{
		SweepID:   uuid.NewString(),
		StartedAt: s.now(),
	}

	ctx = applog.ContextWithFields(ctx, applog.Fields{"sweep_id": report.SweepID})
	logger := applog.FromContext(ctx, component)

	s.setState(StateFetching)
	logger.Debug("감시 주기 시작: 카탈로그를 조회합니다")

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		report.CatalogErr = err
		report.FinishedAt = s.now()

		logger.WithError(err).WithField("error_type", apperrors.UnderlyingType(err).String()).
			Error("카탈로그 조회 실패: 이번 주기는 처리할 상품 없이 종료합니다")
		s.reporter.CatalogUnavailable(ctx, err)

		return report
	}
	s.reporter.CatalogRecovered(ctx)

	report.Fetched = len(products)

	s.setState(StateProcessing)
	for _, product := range products {
		if ctx.Err() != nil {
			report.Interrupted = true
			logger.WithField("remaining", report.Fetched-report.Processed).Warn("종료 신호를 수신하여 남은 상품을 처리하지 않습니다")
			break
		}

		productCtx := applog.ContextWithFields(ctx, applog.Fields{"product_id": product.ID})
		report.add(s.processProduct(productCtx, product))
	}

	report.FinishedAt = s.now()

	logger.WithFields(applog.Fields{
		"fetched":   report.Fetched,
		"processed": report.Processed,
		"updated":   report.Updated,
		"alerted":   report.Alerted,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
		"duration":  report.Duration().String(),
	}).Info("감시 주기 완료")

	return report
}

type nopReporter struct{}

func (nopReporter) CatalogUnavailable(context.Context, error) {}
func (nopReporter) CatalogRecovered(context.Context)          {}
