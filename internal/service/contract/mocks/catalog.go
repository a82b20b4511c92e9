// Package mocks contract 패키지 인터페이스의 testify 기반 Mock 구현체를 제공합니다.
package mocks

import (
	"context"

	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var _ contract.Catalog = (*MockCatalog)(nil)

// MockCatalog contract.Catalog의 Mock 구현체입니다.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]contract.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contract.Product), args.Error(1)
}

func (m *MockCatalog) GetContact(ctx context.Context, contactID string) (*contract.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contact), args.Error(1)
}

func (m *MockCatalog) UpdatePrice(ctx context.Context, productID string, price decimal.Decimal) error {
	args := m.Called(ctx, productID, price)
	return args.Error(0)
}
