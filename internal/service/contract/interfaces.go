// Package contract 감시 파이프라인의 도메인 타입과 협력 서비스 인터페이스를 정의합니다.
package contract

import (
	"context"

	"github.com/shopspring/decimal"
)

// CatalogReader 감시 대상 상품과 연락처를 조회하는 인터페이스입니다.
type CatalogReader interface {
	// ListProducts 카탈로그 전체를 카탈로그 서비스가 반환한 순서대로 조회합니다.
	// 해석할 수 없는 개별 레코드는 건너뛰며, 조회 자체가 실패하면 에러를 반환합니다.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetContact ID로 연락처를 조회합니다. 존재하지 않으면 apperrors.NotFound로 분류된 에러를 반환합니다.
	GetContact(ctx context.Context, contactID string) (*Contact, error)
}

// PriceUpdater 조회한 현재 가격을 카탈로그 서비스에 기록합니다.
type PriceUpdater interface {
	UpdatePrice(ctx context.Context, productID string, price decimal.Decimal) error
}

// Catalog 카탈로그 서비스 클라이언트가 제공하는 기능 전체
type Catalog interface {
	CatalogReader
	PriceUpdater
}

// PriceResolver 상품 페이지의 현재 가격을 정확한 10진수로 조회합니다.
//
// 반환값은 비교와 저장에 바로 사용할 수 있는 값이거나 에러이며, 일부만 해석된 값은 반환하지 않습니다.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, sourceURL string) (decimal.Decimal, error)
}

// Notifier 가격 알림을 발송합니다. 실패는 에러가 아닌 Outcome으로 표현합니다.
type Notifier interface {
	Notify(ctx context.Context, product Product, currentPrice decimal.Decimal) Outcome
}

// OperatorReporter 운영자에게 워커 상태 변화를 알립니다.
type OperatorReporter interface {
	// CatalogUnavailable 카탈로그 조회가 실패했음을 알립니다.
	CatalogUnavailable(ctx context.Context, err error)

	// CatalogRecovered 실패했던 카탈로그 조회가 다시 성공했음을 알립니다.
	CatalogRecovered(ctx context.Context)
}
