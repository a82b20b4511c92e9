package fetcher

import (
	"net/http"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
)

// StatusCodeFetcher 2xx가 아닌 상태 코드의 응답을 닫고 HTTPStatusError로 바꿉니다.
//
// 체인에서 RetryFetcher 안쪽에 위치하므로 재시도 시도마다 검증이 이뤄집니다.
type StatusCodeFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 2xx 응답만 성공으로 봅니다.
func NewStatusCodeFetcher(delegate Fetcher) *StatusCodeFetcher {
	return &StatusCodeFetcher{delegate: delegate}
}

func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	switch {
	case err != nil:
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err

	case resp == nil:
		return nil, newErrStatus(apperrors.Unavailable, "응답 없음", redactURL(req.URL))
	}

	if err := checkResponseStatus(resp); err != nil {
		drainAndCloseBody(resp.Body)
		return nil, err
	}

	return resp, nil
}
