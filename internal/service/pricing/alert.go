package pricing

import (
	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidTargetPrice 목표 가격이 없거나 해석할 수 없어 알림 여부를 판단할 수 없는 경우
var ErrInvalidTargetPrice = apperrors.New(apperrors.InvalidInput, "목표 가격이 올바르지 않습니다")

// ShouldAlert 현재 가격이 목표 가격 이하이면 true를 반환합니다. 같은 가격도 알림 대상입니다.
//
// 목표 가격이 유효하지 않거나 어느 한쪽이 음수이면 알림을 보내지 않고(false) 진단용 에러를 함께 반환합니다.
func ShouldAlert(current decimal.Decimal, target decimal.NullDecimal) (bool, error) {
	if !target.Valid || target.Decimal.IsNegative() {
		return false, ErrInvalidTargetPrice
	}
	if current.IsNegative() {
		return false, ErrNegativePrice
	}

	return current.LessThanOrEqual(target.Decimal), nil
}
