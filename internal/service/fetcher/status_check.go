package fetcher

import (
	"net/http"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
)

// checkResponseStatus 2xx가 아닌 응답을 HTTPStatusError로 변환합니다.
//
// 진단용으로 본문 앞부분만 읽으며, 에러가 반환되면 호출자가 Body를 닫아야 합니다.
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	statusErr := newHTTPStatusError(resp, nil)
	statusErr.Cause = newErrStatus(errorTypeOf(resp.StatusCode), resp.Status, statusErr.URL)

	return statusErr
}

// errorTypeOf 상태 코드를 에러 분류로 변환합니다.
func errorTypeOf(statusCode int) apperrors.ErrorType {
	switch statusCode {
	case http.StatusNotFound:
		return apperrors.NotFound

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.InvalidInput

	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return apperrors.Unavailable
	}

	if statusCode >= 500 {
		return apperrors.Unavailable
	}

	return apperrors.ExecutionFailed
}
