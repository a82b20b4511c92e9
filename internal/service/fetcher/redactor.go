package fetcher

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// redactedValue 로그와 에러 메시지에서 민감 정보를 대신하는 값
const redactedValue = "xxxxx"

// sensitiveQueryKey 값을 가려야 하는 쿼리 파라미터 이름 (대소문자 무시)
//
// 상품 주소에는 제휴 추적용 토큰이 붙어 오는 경우가 많아 접미사(_token, _key 등)까지 검사한다.
var sensitiveQueryKey = regexp.MustCompile(`(?i)^(?:token|auth|key|secret|pass|passwd|password|credential|signature|apikey|api_key|.+_(?:token|secret|key|password|passwd))$`)

var sensitiveHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie", "X-Api-Key"}

// redactHeaders 민감 헤더 값을 "***"로 바꾼 복사본을 반환합니다. 원본은 변경하지 않습니다.
func redactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}

	masked := h.Clone()
	for _, key := range sensitiveHeaders {
		if _, ok := masked[http.CanonicalHeaderKey(key)]; ok {
			masked.Set(key, "***")
		}
	}
	return masked
}

// redactURL 비밀번호(또는 비밀번호 없는 사용자 이름)와 민감한 쿼리 값을 가린 URL 문자열을 반환합니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u

	switch password, hasPassword := u.User.Password(); {
	case u.User == nil:
	case hasPassword && password != "":
		ru.User = url.UserPassword(u.User.Username(), redactedValue)
	case u.User.Username() != "":
		ru.User = url.User(redactedValue)
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if sensitiveQueryKey.MatchString(key) {
				query.Set(key, redactedValue)
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

// redactRawURL 해석할 수 없는 URL은 '@' 앞의 사용자 정보 부분을 통째로 가립니다.
func redactRawURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return redactURL(u)
	}

	at := strings.LastIndex(rawURL, "@")
	if at == -1 {
		return rawURL
	}

	prefix := ""
	if scheme := strings.Index(rawURL[:at], "://"); scheme != -1 {
		prefix = rawURL[:scheme+3]
	}
	return prefix + redactedValue + rawURL[at:]
}
