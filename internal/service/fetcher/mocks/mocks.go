// Package mocks fetcher 패키지를 사용하는 코드의 테스트를 위한 Mock 구현체를 제공합니다.
package mocks

import (
	"bytes"
	"io"
	"net/http"

	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/stretchr/testify/mock"
)

var _ fetcher.Fetcher = (*MockFetcher)(nil)

// MockFetcher testify/mock 기반의 Fetcher 구현체
type MockFetcher struct {
	mock.Mock
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

func (m *MockFetcher) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

// NewMockResponse 주어진 본문과 상태 코드를 가진 응답을 생성합니다.
func NewMockResponse(body string, statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}
