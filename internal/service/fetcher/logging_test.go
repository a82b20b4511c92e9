package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher/mocks"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// LoggingFetcher는 전역 로거를 사용하므로 병렬로 실행하지 않는다.
func TestLoggingFetcher_Do(t *testing.T) {
	hook := test.NewGlobal()
	originalLevel := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logrus.SetLevel(originalLevel)
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})

	ctx := applog.ContextWithFields(context.Background(), applog.Fields{"sweep_id": "s-1", "product_id": "p-1"})

	t.Run("성공은 Debug로 기록한다", func(t *testing.T) {
		hook.Reset()

		m := mocks.NewMockFetcher()
		m.On("Do", mock.Anything).Return(mocks.NewMockResponse("ok", http.StatusOK), nil)

		resp, err := fetcher.Get(ctx, fetcher.NewLoggingFetcher(m), "http://catalog.local/produtos?token=abc")
		require.NoError(t, err)
		resp.Body.Close()

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.DebugLevel, entry.Level)
		assert.Equal(t, "http.fetcher", entry.Data["component"])
		assert.Equal(t, "s-1", entry.Data["sweep_id"])
		assert.Equal(t, "p-1", entry.Data["product_id"])
		assert.Equal(t, http.StatusOK, entry.Data["status_code"])
		assert.Equal(t, "http://catalog.local/produtos?token=xxxxx", entry.Data["url"])
		assert.Equal(t, "catalog.local", entry.Data["host"])
		assert.Contains(t, entry.Data, "elapsed_ms")
	})

	t.Run("실패는 Warn으로 기록한다", func(t *testing.T) {
		hook.Reset()

		m := mocks.NewMockFetcher()
		m.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

		_, err := fetcher.Get(ctx, fetcher.NewLoggingFetcher(m), "http://scraper.local/scrape")
		require.Error(t, err)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "dial tcp: connection refused", entry.Data["error"])
		assert.Equal(t, "Unknown", entry.Data["error_type"])
		assert.Equal(t, "scraper.local", entry.Data["host"])
	})
}
