package scraper

import (
	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
)

var (
	// ErrScrapeFailed 스크래퍼 서비스 호출 자체가 실패했습니다(전송 오류 또는 허용되지 않은 상태 코드).
	ErrScrapeFailed = apperrors.New(apperrors.Unavailable, "스크래퍼 서비스 호출에 실패하였습니다")

	// ErrPriceMissing 응답에 사용할 수 있는 price 필드가 없습니다.
	ErrPriceMissing = apperrors.New(apperrors.ParsingFailed, "스크래퍼 응답에 가격이 없습니다")

	// ErrPriceMalformed price 필드를 정확한 10진수로 해석할 수 없습니다.
	ErrPriceMalformed = apperrors.New(apperrors.ParsingFailed, "스크래퍼가 반환한 가격을 해석할 수 없습니다")
)

// 원인 에러의 메시지는 본문에 남기고 체인에는 sentinel을 둡니다. 호출자는 errors.Is로 단계를 구분합니다.

func newErrScrapeFailed(cause error, sourceURL string) error {
	return apperrors.Wrapf(ErrScrapeFailed, apperrors.UnderlyingType(cause), "가격 조회 요청(%s)이 실패하였습니다: %v", sourceURL, cause)
}

func newErrPriceMissing(sourceURL, detail string) error {
	return apperrors.Wrapf(ErrPriceMissing, apperrors.ParsingFailed, "스크래퍼 응답(%s)에 가격이 없습니다 (%s)", sourceURL, detail)
}

func newErrPriceMalformed(cause error, sourceURL, raw string) error {
	return apperrors.Wrapf(ErrPriceMalformed, apperrors.ParsingFailed, "스크래퍼가 반환한 가격(%q, %s)을 해석할 수 없습니다: %v", raw, sourceURL, cause)
}
