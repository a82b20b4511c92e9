package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
)

const (
	minAllowedRetries = 0
	maxAllowedRetries = 10

	defaultMinRetryDelay = 1 * time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// RetryFetcher 일시적인 실패(네트워크 오류, 5xx, 429, 408)에 대해 지수 백오프로 재시도합니다.
//
// 재시도는 멱등 메서드(GET, PUT 등)에만 적용됩니다. POST는 중복 발송을 막기 위해 한 번만 시도합니다.
// 대기 시간은 minRetryDelay * 2^(n-1)을 상한으로 하는 Full Jitter이며,
// 서버가 Retry-After 헤더를 보내면 그 값을 우선합니다.
type RetryFetcher struct {
	delegate Fetcher

	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher 새로운 RetryFetcher를 생성합니다.
//
// maxRetries는 0~10으로 보정되고, minRetryDelay가 0 이하이면 1초, maxRetryDelay가 0이면 30초를 사용합니다.
func NewRetryFetcher(delegate Fetcher, maxRetries int, minRetryDelay, maxRetryDelay time.Duration) *RetryFetcher {
	minRetryDelay, maxRetryDelay = normalizeRetryDelays(minRetryDelay, maxRetryDelay)

	return &RetryFetcher{
		delegate:      delegate,
		maxRetries:    normalizeMaxRetries(maxRetries),
		minRetryDelay: minRetryDelay,
		maxRetryDelay: maxRetryDelay,
	}
}

func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	effectiveMaxRetries := f.maxRetries
	if !isIdempotentMethod(req.Method) {
		effectiveMaxRetries = 0
	}

	// 본문을 다시 만들 수 없으면 두 번째 시도부터 빈 본문이 전송된다.
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil && effectiveMaxRetries > 0 {
		applog.FromContext(req.Context(), component).WithFields(applog.Fields{
			"url":    redactURL(req.URL),
			"method": req.Method,
		}).Warn("요청 본문을 재생성할 수 없어 재시도를 사용하지 않습니다")

		effectiveMaxRetries = 0
	}

	var lastErr error
	var lastResp *http.Response

	for i := 0; i <= effectiveMaxRetries; i++ {
		if i > 0 {
			delay, err := f.nextDelay(i, lastResp, lastErr)
			if err != nil {
				if lastResp != nil {
					drainAndCloseBody(lastResp.Body)
				}
				return nil, err
			}

			f.logRetry(req, i, effectiveMaxRetries, delay, lastResp, lastErr)

			if lastResp != nil {
				drainAndCloseBody(lastResp.Body)
				lastResp = nil
			}

			timer := time.NewTimer(delay)
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()

			case <-timer.C:
			}

			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, newErrGetBodyFailed(err)
				}

				req = req.Clone(req.Context())
				req.Body = body
			}
		}

		resp, err := f.delegate.Do(req)

		if err != nil {
			if resp != nil {
				drainAndCloseBody(resp.Body)
			}

			// 호출자의 context가 끝났다면 더 시도할 이유가 없다.
			if req.Context().Err() != nil {
				return nil, err
			}

			if !isRetriable(err) {
				return nil, err
			}

			lastErr, lastResp = err, nil
			continue
		}

		if !isRetriableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr, lastResp = nil, resp
	}

	if effectiveMaxRetries == 0 {
		// 재시도하지 않는 요청은 마지막 결과를 그대로 돌려준다.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, lastErr
	}

	if lastResp != nil {
		statusErr := newHTTPStatusError(lastResp, ErrMaxRetriesExceeded)
		statusErr.URL = redactURL(req.URL)
		drainAndCloseBody(lastResp.Body)

		return nil, statusErr
	}

	return nil, newErrMaxRetriesExceeded(lastErr)
}

// nextDelay attempt번째 재시도 전에 기다릴 시간을 계산합니다.
func (f *RetryFetcher) nextDelay(attempt int, lastResp *http.Response, lastErr error) (time.Duration, error) {
	delay := f.minRetryDelay * time.Duration(1<<(attempt-1))
	if delay > f.maxRetryDelay || delay <= 0 {
		delay = f.maxRetryDelay
	}
	delay = time.Duration(rand.Int64N(int64(delay) + 1))

	if retryAfter := retryAfterHeader(lastResp, lastErr); retryAfter != "" {
		if retryAfterDelay, ok := parseRetryAfter(retryAfter); ok {
			if retryAfterDelay > f.maxRetryDelay {
				return 0, newErrRetryAfterExceeded(retryAfterDelay.String(), f.maxRetryDelay.String())
			}
			return retryAfterDelay, nil
		}
	}

	if delay < time.Millisecond {
		delay = f.minRetryDelay
	}

	return delay, nil
}

func (f *RetryFetcher) logRetry(req *http.Request, attempt, effectiveMaxRetries int, delay time.Duration, lastResp *http.Response, lastErr error) {
	fields := applog.Fields{
		"url":               redactURL(req.URL),
		"method":            req.Method,
		"retry":             attempt,
		"remaining_retries": effectiveMaxRetries - attempt,
		"delay":             delay.String(),
	}

	switch {
	case lastErr != nil:
		fields["error"] = lastErr.Error()
		fields["retry_reason"] = "request_error"

	case lastResp != nil:
		fields["status_code"] = lastResp.StatusCode
		fields["retry_reason"] = fmt.Sprintf("status_code_%d", lastResp.StatusCode)
	}

	applog.FromContext(req.Context(), component).
		WithFields(fields).
		Warn("일시적 오류로 요청을 재시도합니다")
}

func retryAfterHeader(lastResp *http.Response, lastErr error) string {
	if lastResp != nil {
		return lastResp.Header.Get("Retry-After")
	}

	var statusErr *HTTPStatusError
	if errors.As(lastErr, &statusErr) {
		return statusErr.RetryAfter()
	}

	return ""
}

func normalizeMaxRetries(maxRetries int) int {
	return min(max(maxRetries, minAllowedRetries), maxAllowedRetries)
}

func normalizeRetryDelays(minRetryDelay, maxRetryDelay time.Duration) (time.Duration, time.Duration) {
	if minRetryDelay <= 0 {
		minRetryDelay = defaultMinRetryDelay
	}
	if maxRetryDelay == 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}
	if maxRetryDelay < minRetryDelay {
		maxRetryDelay = minRetryDelay
	}

	return minRetryDelay, maxRetryDelay
}

// isRetriableStatus 상태 코드 검증 없이 전달된 응답이 재시도 대상인지 판단합니다.
func isRetriableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true

	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
		return false
	}

	return statusCode >= 500
}

// isRetriable 에러가 일시적인 것이어서 다시 시도할 가치가 있는지 판단합니다.
func isRetriable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if strings.Contains(urlErr.Error(), "unsupported protocol scheme") ||
			strings.Contains(urlErr.Error(), "stopped after 10 redirects") {
			return false
		}
	}

	var hostnameErr x509.HostnameError
	var unknownAuthorityErr x509.UnknownAuthorityError
	var certificateInvalidErr x509.CertificateInvalidError
	if errors.As(err, &hostnameErr) || errors.As(err, &unknownAuthorityErr) || errors.As(err, &certificateInvalidErr) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return isRetriableStatus(statusErr.StatusCode)
	}

	if apperrors.Permanent(err) {
		return false
	}

	// 연결 거부, DNS 실패, 타임아웃 등 분류되지 않은 전송 에러는 일시적인 것으로 본다.
	return true
}

// isIdempotentMethod 같은 요청을 여러 번 보내도 결과가 같은 메서드인지 확인합니다.
func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete:
		return true

	default:
		return false
	}
}

// parseRetryAfter 초 단위 정수 또는 HTTP-date 형식의 Retry-After 값을 해석합니다.
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	if date, err := http.ParseTime(value); err == nil {
		return max(time.Until(date), 0), true
	}

	return 0, false
}
