package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/pkg/strutil"
)

// maxPreviewRunes 에러 메시지에 포함할 응답 본문 미리보기의 최대 길이
const maxPreviewRunes = 200

// classify fetcher 체인이 이미 분류한 타입이 있으면 그대로, 없으면 전송 실패로 분류합니다.
func classify(err error) apperrors.ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout
	}
	if t := apperrors.UnderlyingType(err); t != apperrors.Unknown {
		return t
	}
	return apperrors.Unavailable
}

func newErrRequestFailed(err error, method, url string) error {
	return apperrors.Wrapf(err, classify(err), "요청(%s %s)이 실패하였습니다", method, url)
}

func newErrEncodeBody(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.Internal, "요청(%s) 본문을 JSON으로 인코딩할 수 없습니다", url)
}

func newErrDecode(err error, data []byte) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "응답 JSON의 %d번째 바이트에서 문법 오류가 발생하였습니다 (본문: %s)", syntaxErr.Offset, preview(data))
	}
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "응답 JSON을 해석할 수 없습니다 (본문: %s)", preview(data))
}

func newErrTrailingData(data []byte) error {
	return apperrors.Newf(apperrors.ParsingFailed, "응답 JSON 값 뒤에 불필요한 데이터가 있습니다 (본문: %s)", preview(data))
}

func newErrUnexpectedHTML(contentType string, data []byte) error {
	return apperrors.Newf(apperrors.ParsingFailed, "JSON 대신 HTML 응답을 받았습니다 (Content-Type: %s, 본문: %s)", contentType, preview(data))
}

func preview(data []byte) string {
	return fmt.Sprintf("%q", strutil.Truncate(strutil.NormalizeSpaces(string(data)), maxPreviewRunes))
}
