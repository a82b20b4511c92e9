package fetcher

import (
	"fmt"
	"net/http"
)

// HTTPStatusError 카탈로그, 스크래퍼, 알림 서비스가 2xx가 아닌 응답을 돌려줬을 때의 에러입니다.
//
// Cause에는 상태 코드로 분류된 AppError(또는 ErrMaxRetriesExceeded)가 들어 있어
// 감시 루프는 apperrors.UnderlyingType으로 상품 단위 실패 사유를 고른다.
type HTTPStatusError struct {
	StatusCode int

	// URL 민감한 쿼리 값이 가려진 요청 주소
	URL string

	// Header 민감 헤더가 가려진 응답 헤더
	Header http.Header

	// BodySnippet 응답 본문의 앞부분
	BodySnippet string

	Cause error
}

// newHTTPStatusError 응답에서 진단 정보를 뽑아 에러를 만듭니다. 본문은 호출자가 닫는다.
func newHTTPStatusError(resp *http.Response, cause error) *HTTPStatusError {
	e := &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Header:      redactHeaders(resp.Header),
		BodySnippet: readBodySnippet(resp.Body),
		Cause:       cause,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		e.URL = redactURL(resp.Request.URL)
	}
	return e
}

// RetryAfter 서버가 알려 준 Retry-After 값을 반환합니다. 없으면 빈 문자열입니다.
func (e *HTTPStatusError) RetryAfter() string {
	if e.Header == nil {
		return ""
	}
	return e.Header.Get("Retry-After")
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(" 본문=%q", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}
