package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	f := fetcher.NewChain(fetcher.NewHTTPFetcher(), fetcher.Config{
		MaxRetries:     2,
		MinRetryDelay:  time.Millisecond,
		MaxRetryDelay:  2 * time.Millisecond,
		DisableLogging: true,
	})
	return New(f, server.URL)
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestResolver_ResolvePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"pt-BR 문자열", `{"price": "R$ 1.234,56"}`, "1234.56"},
		{"NBSP 포함", `{"price": "R$ 90,00"}`, "90"},
		{"JSON 숫자", `{"price": 150.5}`, "150.5"},
		{"소수 3자리 JSON 숫자", `{"price": 1.234}`, "1.234"},
		{"preco 별칭", `{"preco": "99,90"}`, "99.9"},
		{"data 객체", `{"data": {"price": "R$ 10,00"}}`, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResolver(t, respond(tt.body))

			got, err := r.ResolvePrice(context.Background(), "https://loja.example/p")
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestResolver_ResolvePrice_Request(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotMethod, gotPath string
	var gotBody map[string]any
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		gotMethod, gotPath = req.Method, req.URL.Path
		_ = json.NewDecoder(req.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"price": "R$ 1,00"}`))
	})

	_, err := r.ResolvePrice(context.Background(), "https://loja.example/p?id=1")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/scrape", gotPath)
	assert.Equal(t, map[string]any{"url": "https://loja.example/p?id=1"}, gotBody)
}

func TestResolver_ResolvePrice_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  error
	}{
		{"price 없음", respond(`{"title": "Fone"}`), ErrPriceMissing},
		{"price null", respond(`{"price": null}`), ErrPriceMissing},
		{"price 객체", respond(`{"price": {"value": 1}}`), ErrPriceMissing},
		{"JSON 아님", respond(`<html>blocked</html>`), ErrPriceMissing},
		{"빈 본문", respond(``), ErrPriceMissing},
		{"빈 문자열", respond(`{"price": ""}`), ErrPriceMalformed},
		{"숫자 아님", respond(`{"price": "indisponível"}`), ErrPriceMalformed},
		{"음수 숫자", respond(`{"price": -1}`), ErrPriceMalformed},
		{"서버 오류", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, ErrScrapeFailed},
		{"잘못된 요청", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnprocessableEntity) }, ErrScrapeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResolver(t, tt.handler)

			got, err := r.ResolvePrice(context.Background(), "https://loja.example/p")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "err: %v", err)
			assert.True(t, got.IsZero())
		})
	}
}

func TestResolver_ResolvePrice_NotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := r.ResolvePrice(context.Background(), "https://loja.example/p")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "POST 요청은 재시도하지 않는다")
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
}

func TestResolver_ResolvePrice_TransportError(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockFetcher()
	m.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

	r := New(m, "http://scraper.invalid")

	_, err := r.ResolvePrice(context.Background(), "https://loja.example/p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScrapeFailed)
	assert.Contains(t, err.Error(), "connection refused")
	m.AssertExpectations(t)
}
