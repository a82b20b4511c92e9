// Package pricing 가격 문자열 정규화와 알림 조건 판정을 담당합니다.
//
// 가격은 항상 shopspring/decimal의 정확한 10진수로 다루며 부동소수점으로 변환하지 않습니다.
package pricing

import (
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmptyPrice 정규화 후 숫자가 남지 않는 경우
	ErrEmptyPrice = apperrors.New(apperrors.ParsingFailed, "가격 문자열이 비어 있습니다")

	// ErrMalformedPrice 구분자 배치나 문자 구성이 올바르지 않은 경우
	ErrMalformedPrice = apperrors.New(apperrors.ParsingFailed, "가격 문자열의 형식이 올바르지 않습니다")

	// ErrNegativePrice 음수 가격
	ErrNegativePrice = apperrors.New(apperrors.ParsingFailed, "가격은 음수일 수 없습니다")
)

// currencyPattern 통화 기호와 통화 코드
var currencyPattern = regexp.MustCompile(`(?i)R\$|BRL|USD|EUR|GBP|\p{Sc}`)

// Normalize 지역화된 가격 문자열을 정확한 10진수로 변환합니다.
//
// 통화 기호와 공백(NBSP 포함)을 제거한 뒤 다음 규칙으로 소수 구분자를 결정합니다.
//   - '.'과 ','가 모두 있으면 오른쪽에 있는 것이 소수 구분자, 나머지는 천 단위 구분자
//   - ','만 있으면 소수 구분자 (pt-BR)
//   - '.'만 있으면 두 번 이상 나오거나, 1~3자리 정수 뒤에 정확히 3자리가 따라오는 경우 천 단위 구분자
//     ("1.234" → 1234), 그 밖에는 소수 구분자 ("90.5" → 90.5)
//
// 천 단위 묶음은 반드시 3자리여야 하며 음수는 허용하지 않습니다.
//
//	Normalize("R$ 1.234,56") // 1234.56
//	Normalize("$1,234.56")   // 1234.56
func Normalize(text string) (decimal.Decimal, error) {
	s := norm.NFKC.String(text)
	s = currencyPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return decimal.Decimal{}, apperrors.Wrapf(ErrEmptyPrice, apperrors.ParsingFailed, "가격 문자열(%q)에 숫자가 없습니다", text)
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "−") {
		return decimal.Decimal{}, apperrors.Wrapf(ErrNegativePrice, apperrors.ParsingFailed, "가격 문자열(%q)이 음수입니다", text)
	}

	canonical, ok := canonicalize(s)
	if !ok {
		return decimal.Decimal{}, apperrors.Wrapf(ErrMalformedPrice, apperrors.ParsingFailed, "가격 문자열(%q)을 해석할 수 없습니다", text)
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Decimal{}, apperrors.Wrapf(ErrMalformedPrice, apperrors.ParsingFailed, "가격 문자열(%q)을 해석할 수 없습니다: %v", text, err)
	}

	return d, nil
}

// canonicalize 숫자와 구분자로만 이루어진 s를 "1234.56" 형태로 바꿉니다.
func canonicalize(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != ',' {
			return "", false
		}
	}
	if !isDigit(s[0]) || !isDigit(s[len(s)-1]) {
		return "", false
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	var intPart, fracPart string
	var thousandsSep byte

	switch {
	case lastDot == -1 && lastComma == -1:
		return s, true

	case lastDot != -1 && lastComma != -1:
		decimalIdx := max(lastDot, lastComma)
		thousandsSep = '.'
		if decimalIdx == lastDot {
			thousandsSep = ','
		}
		intPart, fracPart = s[:decimalIdx], s[decimalIdx+1:]

	case lastComma != -1:
		if strings.Count(s, ",") > 1 {
			return "", false
		}
		intPart, fracPart = s[:lastComma], s[lastComma+1:]

	default:
		if isDotThousands(s) {
			return ungroup(s, '.')
		}
		intPart, fracPart = s[:lastDot], s[lastDot+1:]
	}

	// 소수부에는 구분자가 올 수 없다.
	if strings.ContainsAny(fracPart, ".,") {
		return "", false
	}

	if thousandsSep != 0 {
		grouped, ok := ungroup(intPart, thousandsSep)
		if !ok {
			return "", false
		}
		intPart = grouped
	} else if strings.ContainsAny(intPart, ".,") {
		return "", false
	}

	return intPart + "." + fracPart, true
}

// isDotThousands '.'만 있는 문자열에서 '.'이 천 단위 구분자인지 판단합니다.
func isDotThousands(s string) bool {
	if strings.Count(s, ".") > 1 {
		return true
	}

	idx := strings.IndexByte(s, '.')
	intGroup, rest := s[:idx], s[idx+1:]

	return len(intGroup) <= 3 && intGroup[0] != '0' && len(rest) == 3
}

// ungroup sep로 구분된 천 단위 묶음을 검증하고 구분자를 제거합니다.
func ungroup(s string, sep byte) (string, bool) {
	if strings.IndexByte(s, sep) == -1 {
		return s, true
	}

	groups := strings.Split(s, string(sep))
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	for _, g := range groups {
		for i := 0; i < len(g); i++ {
			if !isDigit(g[i]) {
				return "", false
			}
		}
	}

	return strings.Join(groups, ""), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
