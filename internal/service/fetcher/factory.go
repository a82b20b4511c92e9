package fetcher

import (
	"time"
)

// Config Fetcher 체인 구성을 위한 설정입니다. 0 값 필드는 각 Fetcher의 기본값을 따릅니다.
type Config struct {
	MaxRetries    int
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	// MaxBytes 응답 본문 최대 크기 (0이면 10MB, NoLimit이면 제한 없음)
	MaxBytes int64

	// RateLimit 초당 최대 요청 수 (0이면 제한 없음)
	RateLimit float64

	DisableLogging bool
}

// NewChain base를 감싸는 Fetcher 체인을 구성합니다.
//
// 여러 체인이 하나의 base(연결 풀)를 공유할 수 있으며, 바깥쪽부터 다음 순서로 감쌉니다.
//
//  1. LoggingFetcher: 재시도를 포함한 요청 전체를 기록
//  2. RetryFetcher: 아래 단계의 실패(상태 코드 포함)를 보고 재시도
//  3. StatusCodeFetcher: 시도마다 상태 코드 검증
//  4. MaxBytesFetcher: 응답 본문 크기 제한
//  5. RateLimitFetcher: 시도마다 처리율 제한 대기
//  6. base: 실제 전송
func NewChain(base Fetcher, cfg Config) Fetcher {
	f := NewRateLimitFetcher(base, cfg.RateLimit, 1)

	f = NewMaxBytesFetcher(f, cfg.MaxBytes)

	f = NewStatusCodeFetcher(f)

	f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)

	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f
}
