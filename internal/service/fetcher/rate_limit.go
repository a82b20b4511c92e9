package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher 초당 요청 수를 제한합니다.
//
// 대기는 요청 context를 따르므로 종료 신호를 받으면 즉시 중단됩니다.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

var _ Fetcher = (*RateLimitFetcher)(nil)

// NewRateLimitFetcher rps가 0 이하이면 제한 없이 delegate를 그대로 반환합니다.
func NewRateLimitFetcher(delegate Fetcher, rps float64, burst int) Fetcher {
	if rps <= 0 {
		return delegate
	}
	if burst < 1 {
		burst = 1
	}

	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, newErrRateLimitWait(err)
	}

	return f.delegate.Do(req)
}
