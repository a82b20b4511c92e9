package mocks

import (
	"context"

	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var (
	_ contract.PriceResolver    = (*MockPriceResolver)(nil)
	_ contract.Notifier         = (*MockNotifier)(nil)
	_ contract.OperatorReporter = (*MockOperatorReporter)(nil)
)

// MockPriceResolver contract.PriceResolver의 Mock 구현체입니다.
type MockPriceResolver struct {
	mock.Mock
}

func (m *MockPriceResolver) ResolvePrice(ctx context.Context, sourceURL string) (decimal.Decimal, error) {
	args := m.Called(ctx, sourceURL)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockNotifier contract.Notifier의 Mock 구현체입니다.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, product contract.Product, currentPrice decimal.Decimal) contract.Outcome {
	args := m.Called(ctx, product, currentPrice)
	return args.Get(0).(contract.Outcome)
}

// MockOperatorReporter contract.OperatorReporter의 Mock 구현체입니다.
type MockOperatorReporter struct {
	mock.Mock
}

func (m *MockOperatorReporter) CatalogUnavailable(ctx context.Context, err error) {
	m.Called(ctx, err)
}

func (m *MockOperatorReporter) CatalogRecovered(ctx context.Context) {
	m.Called(ctx)
}
