package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/contract/mocks"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// notifierServer 알림 서비스 fake. 받은 요청 본문을 기록합니다.
type notifierServer struct {
	*httptest.Server

	mu       sync.Mutex
	paths    []string
	requests []map[string]string
}

func newNotifierServer(t *testing.T, status int) *notifierServer {
	t.Helper()

	s := &notifierServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		s.mu.Lock()
		s.paths = append(s.paths, r.URL.Path)
		s.requests = append(s.requests, body)
		s.mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *notifierServer) received() ([]string, []map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...), append([]map[string]string(nil), s.requests...)
}

func newTestProduct() contract.Product {
	return contract.Product{
		ID:          "p1",
		Name:        "Fone Bluetooth",
		SourceURL:   "https://loja.example/fone",
		TargetPrice: decimal.NewNullDecimal(decimal.RequireFromString("100.00")),
	}
}

func TestDispatcher_Notify_EmbeddedContact(t *testing.T) {
	t.Parallel()

	server := newNotifierServer(t, http.StatusOK)
	catalog := &mocks.MockCatalog{}

	d := NewDispatcher(fetcher.NewHTTPFetcher(), server.URL, "/notificacao", catalog)

	product := newTestProduct()
	product.Contact = &contract.Contact{ID: "c1", DeliveryAddress: "5511999990000"}

	outcome := d.Notify(context.Background(), product, decimal.RequireFromString("90"))
	assert.Equal(t, contract.OutcomeSent, outcome.Status)
	assert.Equal(t, contract.ReasonNone, outcome.Reason)

	paths, requests := server.received()
	require.Len(t, requests, 1)
	assert.Equal(t, []string{"/notificacao"}, paths)
	assert.Equal(t, "5511999990000", requests[0]["chat_id"])
	assert.Equal(t, "5511999990000", requests[0]["destinatario"])
	assert.Equal(t, requests[0]["message"], requests[0]["mensagem"])
	assert.Contains(t, requests[0]["message"], "Fone Bluetooth")
	assert.Contains(t, requests[0]["message"], "R$ 90,00")
	assert.Contains(t, requests[0]["message"], "R$ 100,00")
	assert.Contains(t, requests[0]["message"], "https://loja.example/fone")

	catalog.AssertNotCalled(t, "GetContact", mock.Anything, mock.Anything)
}

func TestDispatcher_Notify_ContactLookup(t *testing.T) {
	t.Parallel()

	server := newNotifierServer(t, http.StatusOK)
	catalog := &mocks.MockCatalog{}
	catalog.On("GetContact", mock.Anything, "c9").Return(&contract.Contact{ID: "c9", DeliveryAddress: "123"}, nil).Once()

	d := NewDispatcher(fetcher.NewHTTPFetcher(), server.URL, "/notify", catalog)

	product := newTestProduct()
	product.ContactID = "c9"

	outcome := d.Notify(context.Background(), product, decimal.RequireFromString("100"))
	assert.Equal(t, contract.OutcomeSent, outcome.Status)

	_, requests := server.received()
	require.Len(t, requests, 1)
	assert.Equal(t, "123", requests[0]["chat_id"])
	catalog.AssertExpectations(t)
}

func TestDispatcher_Notify_Skipped(t *testing.T) {
	t.Parallel()

	lookupErr := apperrors.New(apperrors.Unavailable, "connection refused")
	notFoundErr := apperrors.New(apperrors.NotFound, "404 Not Found")

	tests := []struct {
		name    string
		setup   func(p *contract.Product, c *mocks.MockCatalog)
		reason  contract.Reason
		wantErr error
	}{
		{
			name:   "연락처 참조 없음",
			setup:  func(p *contract.Product, c *mocks.MockCatalog) {},
			reason: contract.ReasonMissingContact,
		},
		{
			name: "연락처 없음(404)",
			setup: func(p *contract.Product, c *mocks.MockCatalog) {
				p.ContactID = "gone"
				c.On("GetContact", mock.Anything, "gone").Return(nil, notFoundErr)
			},
			reason:  contract.ReasonMissingContact,
			wantErr: notFoundErr,
		},
		{
			name: "연락처 조회 실패",
			setup: func(p *contract.Product, c *mocks.MockCatalog) {
				p.ContactID = "c1"
				c.On("GetContact", mock.Anything, "c1").Return(nil, lookupErr)
			},
			reason:  contract.ReasonContactLookupFailed,
			wantErr: lookupErr,
		},
		{
			name: "내장 연락처의 수신 주소 없음",
			setup: func(p *contract.Product, c *mocks.MockCatalog) {
				p.Contact = &contract.Contact{ID: "c1"}
			},
			reason: contract.ReasonMissingDeliveryAddress,
		},
		{
			name: "조회한 연락처의 수신 주소 없음",
			setup: func(p *contract.Product, c *mocks.MockCatalog) {
				p.ContactID = "c2"
				c.On("GetContact", mock.Anything, "c2").Return(&contract.Contact{ID: "c2"}, nil)
			},
			reason: contract.ReasonMissingDeliveryAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newNotifierServer(t, http.StatusOK)
			catalog := &mocks.MockCatalog{}

			product := newTestProduct()
			tt.setup(&product, catalog)

			d := NewDispatcher(fetcher.NewHTTPFetcher(), server.URL, "/notify", catalog)

			outcome := d.Notify(context.Background(), product, decimal.RequireFromString("1"))
			assert.Equal(t, contract.OutcomeSkipped, outcome.Status)
			assert.Equal(t, tt.reason, outcome.Reason)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(outcome.Err, tt.wantErr))
			} else {
				assert.NoError(t, outcome.Err)
			}

			_, requests := server.received()
			assert.Empty(t, requests, "건너뛴 알림은 알림 서비스를 호출하지 않는다")
			catalog.AssertExpectations(t)
		})
	}
}

func TestDispatcher_Notify_Failed(t *testing.T) {
	t.Parallel()

	server := newNotifierServer(t, http.StatusInternalServerError)

	f := fetcher.NewChain(fetcher.NewHTTPFetcher(), fetcher.Config{MaxRetries: 3, DisableLogging: true})
	d := NewDispatcher(f, server.URL, "/notify", &mocks.MockCatalog{})

	product := newTestProduct()
	product.Contact = &contract.Contact{ID: "c1", DeliveryAddress: "123"}

	outcome := d.Notify(context.Background(), product, decimal.RequireFromString("1"))
	assert.Equal(t, contract.OutcomeFailed, outcome.Status)
	assert.Equal(t, contract.ReasonNotifyFailed, outcome.Reason)
	require.Error(t, outcome.Err)
	assert.True(t, apperrors.Is(outcome.Err, apperrors.Unavailable))

	_, requests := server.received()
	assert.Len(t, requests, 1, "알림 발송은 재시도하지 않는다")
}

func TestDispatcher_Notify_Unreachable(t *testing.T) {
	t.Parallel()

	server := newNotifierServer(t, http.StatusOK)
	url := server.URL
	server.Close()

	d := NewDispatcher(fetcher.NewHTTPFetcher(), url, "/notify", &mocks.MockCatalog{})

	product := newTestProduct()
	product.Contact = &contract.Contact{ID: "c1", DeliveryAddress: "123"}

	outcome := d.Notify(context.Background(), product, decimal.RequireFromString("1"))
	assert.Equal(t, contract.OutcomeFailed, outcome.Status)
	assert.Error(t, outcome.Err)
}
