package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_UserAgent(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.UserAgent())
	}))
	defer server.Close()

	t.Run("기본값", func(t *testing.T) {
		resp, err := fetcher.Get(context.Background(), fetcher.NewHTTPFetcher(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fetcher.DefaultUserAgent, got.Load())
	})

	t.Run("옵션으로 지정", func(t *testing.T) {
		resp, err := fetcher.Get(context.Background(), fetcher.NewHTTPFetcher(fetcher.WithUserAgent("price-watcher/1.0")), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "price-watcher/1.0", got.Load())
	})
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fetcher.DefaultTimeout, fetcher.NewHTTPFetcher().Client().Timeout)
	assert.Equal(t, 5*time.Second, fetcher.NewHTTPFetcher(fetcher.WithTimeout(5*time.Second)).Client().Timeout)
	assert.Equal(t, fetcher.DefaultTimeout, fetcher.NewHTTPFetcher(fetcher.WithTimeout(0)).Client().Timeout)

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := fetcher.Get(context.Background(), fetcher.NewHTTPFetcher(fetcher.WithTimeout(20*time.Millisecond)), server.URL)
	assert.Error(t, err)
}
