package fetcher

import (
	"fmt"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
)

var (
	// ErrMaxRetriesExceeded 재시도 횟수를 모두 소진한 뒤에도 요청이 성공하지 못했을 때 반환됩니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")

	// ErrResponseBodyTooLarge 응답 본문이 허용된 최대 크기를 넘었을 때 반환됩니다.
	ErrResponseBodyTooLarge = apperrors.New(apperrors.ExecutionFailed, "응답 본문이 허용된 최대 크기를 초과하였습니다")
)

func newErrInvalidRequest(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청(%s)을 생성할 수 없습니다", redactRawURL(url))
}

func newErrMaxRetriesExceeded(lastErr error) error {
	if lastErr == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(lastErr, apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")
}

func newErrRetryAfterExceeded(retryAfter, maxDelay string) error {
	return apperrors.Newf(apperrors.Unavailable, "서버가 요청한 재시도 대기 시간(%s)이 허용된 최대 대기 시간(%s)을 초과하였습니다", retryAfter, maxDelay)
}

func newErrGetBodyFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "재시도를 위한 요청 본문을 다시 만들 수 없습니다")
}

func newErrRateLimitWait(err error) error {
	return apperrors.Wrap(err, apperrors.Timeout, "처리율 제한 대기 중 요청이 취소되었습니다")
}

func newErrStatus(errType apperrors.ErrorType, status, url string) error {
	return apperrors.New(errType, fmt.Sprintf("HTTP 요청이 실패했습니다 (상태: %s, URL: %s)", status, url))
}

func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.Wrapf(ErrResponseBodyTooLarge, apperrors.ExecutionFailed, "응답 본문이 %d바이트를 초과하였습니다", limit)
}

func newErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.Wrapf(ErrResponseBodyTooLarge, apperrors.ExecutionFailed, "Content-Length(%d)가 허용된 최대 크기(%d)를 초과하였습니다", contentLength, limit)
}
