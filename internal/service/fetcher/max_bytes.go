package fetcher

import (
	"net/http"
)

const (
	// defaultMaxBytes 카탈로그 목록이나 스크래퍼 응답으로는 넉넉한 크기
	defaultMaxBytes = 10 * 1024 * 1024

	// NoLimit 응답 본문 크기를 제한하지 않음
	NoLimit = -1
)

// MaxBytesFetcher 응답 본문의 크기를 제한합니다.
//
// Content-Length가 한도를 넘으면 본문을 읽기 전에 실패하고,
// 그렇지 않으면 읽는 도중 한도를 넘는 순간 ErrResponseBodyTooLarge를 반환합니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

var _ Fetcher = (*MaxBytesFetcher)(nil)

// NewMaxBytesFetcher limit이 NoLimit이면 delegate를 그대로, 0 이하이면 기본 한도(10MB)로 생성합니다.
func NewMaxBytesFetcher(delegate Fetcher, limit int64) Fetcher {
	switch {
	case limit == NoLimit:
		return delegate
	case limit <= 0:
		limit = defaultMaxBytes
	}

	return &MaxBytesFetcher{delegate: delegate, limit: limit}
}

func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if resp.ContentLength > f.limit {
		drainAndCloseBody(resp.Body)
		return nil, newErrResponseBodyTooLargeByContentLength(resp.ContentLength, f.limit)
	}

	if resp.Body != nil && resp.Body != http.NoBody {
		resp.Body = newLimitedBody(resp.Body, f.limit)
	}

	return resp, nil
}
