package fetcher

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout 요청 하나에 허용되는 기본 시간
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent User-Agent 헤더가 비어 있을 때 사용하는 값
	DefaultUserAgent = "price-watcher"
)

// HTTPFetcher 체인의 가장 안쪽에서 실제 네트워크 I/O를 수행합니다.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Option HTTPFetcher 설정 옵션
type Option func(*HTTPFetcher)

// WithTimeout 요청 하나의 전체 타임아웃을 지정합니다. 0 이하의 값은 무시합니다.
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		if timeout > 0 {
			h.client.Timeout = timeout
		}
	}
}

// WithUserAgent 요청에 User-Agent가 없을 때 사용할 값을 지정합니다.
func WithUserAgent(userAgent string) Option {
	return func(h *HTTPFetcher) {
		if userAgent != "" {
			h.userAgent = userAgent
		}
	}
}

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
//
// 같은 프로세스 안의 모든 협력 서비스 호출은 하나의 HTTPFetcher(와 그 연결 풀)를 공유합니다.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	h := &HTTPFetcher{
		client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: newTransport(),
		},
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
}

func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	return h.client.Do(req)
}

// Client 내부 http.Client를 반환합니다.
func (h *HTTPFetcher) Client() *http.Client {
	return h.client
}
