package errors

// ErrorType 에러의 성격을 분류합니다.
//
// 감시 루프는 이 분류를 보고 상품 단위 실패 사유를 결정하므로,
// 외부 서비스 호출 결과를 감쌀 때는 반드시 적절한 타입을 지정해야 합니다.
type ErrorType int

const (
	// Unknown 분류되지 않은 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류
	Internal

	// System 프로세스나 인프라 수준의 오류 (파일, 로그 디렉터리 등)
	System

	// InvalidInput 설정값이나 입력 데이터가 유효하지 않음
	InvalidInput

	// NotFound 참조한 리소스(상품, 연락처)를 찾을 수 없음
	NotFound

	// ExecutionFailed 외부 서비스 호출이 실패 응답을 돌려줌
	ExecutionFailed

	// ParsingFailed 응답 본문이나 가격 문자열을 해석할 수 없음
	ParsingFailed

	// Timeout 요청 시간 초과
	Timeout

	// Unavailable 외부 서비스에 일시적으로 연결할 수 없음 (네트워크, 5xx, 429)
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	InvalidInput:    "InvalidInput",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(?)"
	}
	return errorTypeNames[t]
}
