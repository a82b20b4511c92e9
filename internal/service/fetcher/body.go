package fetcher

import (
	"io"
)

const (
	// maxBodySnippetBytes 에러에 남길 응답 본문의 최대 크기
	maxBodySnippetBytes = 4096

	// maxDrainBytes 연결 재사용을 위해 버릴 본문의 최대 크기. 더 남아 있으면 연결째 닫는다.
	maxDrainBytes = 64 * 1024
)

// drainAndCloseBody 남은 본문을 버리고 닫아서 Keep-Alive 연결이 풀로 돌아가게 합니다.
//
// 감시 주기마다 같은 카탈로그, 스크래퍼, 알림 호스트를 반복 호출하므로
// 실패 응답 뒤에도 연결을 살려 두는 편이 다음 호출을 빠르게 한다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
	_ = body.Close()
}

// readBodySnippet 진단용으로 본문 앞부분만 읽습니다. 읽기 실패는 빈 문자열로 본다.
func readBodySnippet(body io.Reader) string {
	if body == nil {
		return ""
	}
	b, err := io.ReadAll(io.LimitReader(body, maxBodySnippetBytes))
	if err != nil {
		return ""
	}
	return string(b)
}

// limitedBody 한도를 넘는 바이트를 읽는 순간 ErrResponseBodyTooLarge를 돌려주는 본문입니다.
//
// 스크래퍼가 상품 페이지 전체를 되돌려 보내는 경우처럼 Content-Length 없이
// 큰 응답이 흘러 들어와도 디코더가 끝까지 읽지 않게 막는다.
type limitedBody struct {
	io.ReadCloser

	limit     int64
	remaining int64
}

func newLimitedBody(rc io.ReadCloser, limit int64) *limitedBody {
	return &limitedBody{ReadCloser: rc, limit: limit, remaining: limit}
}

func (b *limitedBody) Read(p []byte) (int, error) {
	if b.remaining < 0 {
		return 0, newErrResponseBodyTooLarge(b.limit)
	}

	// 한도를 넘었는지 알기 위해 한 바이트를 더 읽어 본다.
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}

	n, err := b.ReadCloser.Read(p)
	if int64(n) > b.remaining {
		n = int(b.remaining)
		b.remaining = -1
		return n, newErrResponseBodyTooLarge(b.limit)
	}
	b.remaining -= int64(n)

	return n, err
}
