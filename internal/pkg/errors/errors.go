// Package errors 가격 감시 워커 전용 에러 타입을 제공합니다.
//
// 모든 에러는 ErrorType으로 분류되며 Wrap 계열 함수로 원인 에러에 컨텍스트를 덧붙입니다.
// 감시 루프는 분류된 타입만 보고 상품 단위의 처리 결과를 결정합니다.
//
//	if err != nil {
//	    return errors.Wrap(err, errors.Unavailable, "카탈로그 서비스 호출에 실패하였습니다")
//	}
//
//	if errors.Is(err, errors.ParsingFailed) {
//	    // 가격 문자열 해석 실패
//	}
//
// 외부 라이브러리 에러를 감쌀 때의 분류 기준:
//   - net.Error, 연결 거부, 5xx, 429 → Unavailable
//   - context.DeadlineExceeded → Timeout
//   - 404 → NotFound, 그 밖의 4xx → ExecutionFailed
//   - JSON 디코딩, 가격 정규화 실패 → ParsingFailed
//   - 설정값 검증 실패 → InvalidInput
package errors

import (
	"errors"
	"fmt"
)

// AppError 분류 타입과 메시지, 원인 에러를 함께 보관하는 에러입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
}

// Type 에러의 분류 타입을 반환합니다.
func (e *AppError) Type() ErrorType {
	return e.errType
}

func (e *AppError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.errType, e.message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// New 새로운 에러를 생성합니다.
func New(errType ErrorType, message string) error {
	return &AppError{errType: errType, message: message}
}

// Newf 포맷 문자열로 새로운 에러를 생성합니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return New(errType, fmt.Sprintf(format, args...))
}

// Wrap 원인 에러에 분류와 메시지를 덧붙입니다. err이 nil이면 nil을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{errType: errType, message: message, cause: err}
}

// Wrapf Wrap의 포맷 문자열 버전입니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, errType, fmt.Sprintf(format, args...))
}

// Is 에러 체인에 주어진 ErrorType의 AppError가 포함되어 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
	}
	return false
}

// As 표준 errors.As의 별칭입니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// UnderlyingType 에러 체인에서 가장 안쪽에 있는 AppError의 타입을 반환합니다.
//
// HTTP 상태 에러(Unavailable)를 카탈로그 클라이언트가 다시 감싸더라도
// 감시 루프는 이 함수로 원래의 분류를 확인합니다. 체인에 AppError가 없으면 Unknown입니다.
func UnderlyingType(err error) ErrorType {
	found := Unknown
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*AppError); ok {
			found = appErr.errType
		}
	}
	return found
}

// permanentTypes 같은 요청을 다시 보내도 결과가 바뀌지 않는 분류
var permanentTypes = []ErrorType{ExecutionFailed, InvalidInput, NotFound, Internal}

// Permanent 체인 어딘가에 재시도로 해결되지 않는 분류가 있는지 확인합니다.
// 가격 조회나 카탈로그 호출의 재시도 여부는 이 결과로 결정됩니다.
func Permanent(err error) bool {
	for _, t := range permanentTypes {
		if Is(err, t) {
			return true
		}
	}
	return false
}
