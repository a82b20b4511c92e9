// Package fetcher 협력 서비스 호출에 사용하는 HTTP 클라이언트 데코레이터 체인을 제공합니다.
//
// 각 Fetcher는 하나의 관심사(전송, 처리율 제한, 재시도, 상태 코드 검증, 응답 크기 제한, 로깅)만 담당하며
// NewChain이 이들을 정해진 순서로 조립합니다.
package fetcher

import (
	"context"
	"net/http"
)

const component = "http.fetcher"

// Fetcher HTTP 요청을 수행하는 추상화입니다.
//
// 에러가 반환되면 응답 본문은 이미 정리된 상태이며, 성공한 응답의 Body는 호출자가 닫아야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get GET 요청을 생성하여 수행합니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newErrInvalidRequest(err, url)
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}

		return nil, err
	}

	return resp, nil
}
