// Package strutil 로그 출력과 메시지 구성에 쓰는 문자열 유틸리티를 제공합니다.
package strutil

import (
	"strings"
	"unicode/utf8"
)

// NormalizeSpaces 앞뒤 공백을 제거하고 연속된 공백을 하나로 축약합니다.
// 예: "  Fone   Bluetooth  " -> "Fone Bluetooth"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GroupDigits 숫자 문자열을 오른쪽부터 3자리씩 sep로 구분합니다.
// 숫자 이외의 문자가 섞인 입력은 그대로 반환합니다.
// 예: GroupDigits("1234567", '.') -> "1.234.567"
func GroupDigits(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return digits
		}
	}

	var builder strings.Builder
	builder.Grow(len(digits) + (len(digits)-1)/3)

	first := len(digits) % 3
	if first == 0 {
		first = 3
	}
	builder.WriteString(digits[:first])
	for i := first; i < len(digits); i += 3 {
		builder.WriteByte(sep)
		builder.WriteString(digits[i : i+3])
	}

	return builder.String()
}

// Truncate 문자열을 최대 maxRunes 글자로 자르고, 잘린 경우 "..."를 덧붙입니다.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	var n int
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// MaskSensitiveData 토큰, 키 같은 민감 정보를 로그에 남길 수 있도록 마스킹합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	if len(data) <= 3 {
		return "***"
	}

	if len(data) <= 12 {
		return data[:4] + "***"
	}

	return data[:4] + "***" + data[len(data)-4:]
}
