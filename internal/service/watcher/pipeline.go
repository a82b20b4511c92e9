package watcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/pricing"
	"github.com/darkkaiser/price-watcher/internal/service/scraper"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// processProduct 상품 하나에 대해 조회, 기록, 판정, 알림을 순서대로 수행합니다.
//
// 어느 단계의 실패도 이 함수 밖으로 전파되지 않으며 panic도 결과로 변환됩니다.
func (s *Service) processProduct(ctx context.Context, product contract.Product) (result ProductResult) {
	result = ProductResult{ProductID: product.ID, Stage: StageValidate}

	logger := applog.FromContext(ctx, component)

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.Newf(apperrors.Internal, "상품 처리 중 panic이 발생하였습니다: %v", r)

			logger.WithError(err).WithFields(applog.Fields{
				"stage": result.Stage,
				"stack": string(debug.Stack()),
			}).Error("상품 처리 중 panic 복구")

			result.Outcome = OutcomeFailed
			result.Reason = contract.ReasonPanic
			result.Err = err
			result.Alerted = false
		}
	}()

	// 1. 전제 조건
	if product.SourceURL == "" {
		return s.skip(ctx, result, contract.ReasonMissingSourceURL, nil)
	}
	if err := validate.Var(product.SourceURL, "http_url"); err != nil {
		return s.skip(ctx, result, contract.ReasonInvalidSourceURL, apperrors.Wrapf(err, apperrors.InvalidInput, "상품 주소(%s)가 올바른 http(s) URL이 아닙니다", product.SourceURL))
	}

	// 2. 현재 가격 조회
	result.Stage = StageResolve
	price, err := s.resolver.ResolvePrice(ctx, product.SourceURL)
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrPriceMissing):
			return s.skip(ctx, result, contract.ReasonPriceMissing, err)
		case errors.Is(err, scraper.ErrPriceMalformed):
			return s.skip(ctx, result, contract.ReasonPriceMalformed, err)
		default:
			return s.fail(ctx, result, contract.ReasonScrapeFailed, err)
		}
	}
	result.Price = decimal.NewNullDecimal(price)

	// 3. 현재 가격 기록. 실패해도 알림 판정은 계속한다.
	result.Stage = StagePersist
	if err := s.catalog.UpdatePrice(ctx, product.ID, price); err != nil {
		result.PersistErr = err
		logger.WithError(err).WithFields(applog.Fields{
			"reason": contract.ReasonPersistFailed,
			"price":  price.String(),
		}).Warn("현재 가격 기록에 실패했지만 알림 판정은 계속합니다")
	} else {
		result.Persisted = true
	}

	// 4. 알림 판정
	result.Stage = StageEvaluate
	alert, err := pricing.ShouldAlert(price, product.TargetPrice)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidTargetPrice) {
			err = apperrors.Wrapf(err, apperrors.InvalidInput, "목표 가격(%q)을 사용할 수 없습니다", product.TargetPriceRaw)
			return s.skip(ctx, result, contract.ReasonInvalidTargetPrice, err)
		}
		return s.fail(ctx, result, contract.ReasonPriceMalformed, err)
	}
	if !alert {
		logger.WithFields(applog.Fields{
			"price":        price.String(),
			"target_price": product.TargetPrice.Decimal.String(),
		}).Debug("현재 가격이 목표 가격보다 높아 알림을 보내지 않습니다")

		result.Outcome = OutcomeCompleted
		result.Reason = contract.ReasonAboveTarget
		return result
	}

	// 5. 알림 발송
	result.Stage = StageNotify
	outcome := s.notifier.Notify(ctx, product, price)
	switch outcome.Status {
	case contract.OutcomeSent:
		result.Outcome = OutcomeCompleted
		result.Alerted = true
		return result

	case contract.OutcomeSkipped:
		result.Outcome = OutcomeSkipped
		result.Reason = outcome.Reason
		result.Err = outcome.Err
		return result

	default:
		result.Outcome = OutcomeFailed
		result.Reason = outcome.Reason
		result.Err = outcome.Err
		if result.Err == nil {
			result.Err = apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("알림 발송 결과를 확인할 수 없습니다 (%s)", outcome.Status))
		}
		return result
	}
}

func (s *Service) skip(ctx context.Context, result ProductResult, reason contract.Reason, err error) ProductResult {
	entry := applog.FromContext(ctx, component).WithFields(applog.Fields{
		"stage":  result.Stage,
		"reason": reason,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Info("상품을 이번 주기에서 건너뜁니다")

	result.Outcome = OutcomeSkipped
	result.Reason = reason
	result.Err = err
	return result
}

func (s *Service) fail(ctx context.Context, result ProductResult, reason contract.Reason, err error) ProductResult {
	applog.FromContext(ctx, component).WithError(err).WithFields(applog.Fields{
		"stage":  result.Stage,
		"reason": reason,
	}).Warn("상품 처리에 실패하여 다음 상품으로 넘어갑니다")

	result.Outcome = OutcomeFailed
	result.Reason = reason
	result.Err = err
	return result
}
