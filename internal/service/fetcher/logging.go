package fetcher

import (
	"net/http"
	"time"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
)

// LoggingFetcher 협력 서비스 호출 한 건(재시도 포함)의 결과를 남깁니다.
//
// 요청 context의 sweep_id, product_id가 함께 찍히므로 한 상품이 어느 호스트에서
// 얼마나 걸려 실패했는지 로그만으로 추적할 수 있다.
type LoggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*LoggingFetcher)(nil)

func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{delegate: delegate}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := f.delegate.Do(req)
	elapsed := time.Since(start)

	logger := applog.FromContext(req.Context(), component).WithFields(applog.Fields{
		"method":     req.Method,
		"host":       req.URL.Host,
		"url":        redactURL(req.URL),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	if resp != nil {
		logger = logger.WithField("status_code", resp.StatusCode)
	}

	if err != nil {
		logger.WithFields(applog.Fields{
			"error":      err.Error(),
			"error_type": apperrors.UnderlyingType(err).String(),
		}).Warn("협력 서비스 호출 실패")

		return resp, err
	}

	logger.Debug("협력 서비스 호출 완료")

	return resp, nil
}
