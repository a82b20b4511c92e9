package pricing

import (
	"strings"

	"github.com/darkkaiser/price-watcher/pkg/strutil"
	"github.com/shopspring/decimal"
)

// FormatBRL 가격을 pt-BR 표기(R$ 1.234,56)로 변환합니다.
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	return "R$ " + sign + strutil.GroupDigits(intPart, '.') + "," + fracPart
}

// WireString 카탈로그 서비스에 기록할 가격 문자열을 반환합니다.
// 소수점 이하가 2자리 이하이면 2자리로 고정하고, 더 길면 값을 잃지 않도록 그대로 표기합니다.
func WireString(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
