package maputil

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// DecimalHookFunc decimal.Decimal, decimal.NullDecimal 필드로의 변환 훅입니다.
//
// 문자열만 parse로 해석합니다. (nil이면 decimal.NewFromString)
// json.Number는 JSON 숫자 표기 그대로이므로 '.'을 항상 소수점으로 보고 decimal.NewFromString으로 변환합니다.
// 정수는 그대로, float64는 decimal.NewFromFloat로 변환하지만 정확한 값을 원하면
// JSON을 json.Decoder.UseNumber로 디코딩해 json.Number로 전달해야 합니다.
//
// decimal.Decimal 필드는 해석에 실패하면 에러를 반환하고,
// decimal.NullDecimal 필드는 해석에 실패하거나 빈 문자열이면 Valid=false가 됩니다.
func DecimalHookFunc(parse func(string) (decimal.Decimal, error)) mapstructure.DecodeHookFunc {
	if parse == nil {
		parse = decimal.NewFromString
	}

	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		switch t {
		case decimalType:
			d, err := toDecimal(data, parse)
			if err != nil {
				return nil, err
			}
			return d, nil

		case nullDecimalType:
			d, err := toDecimal(data, parse)
			if err != nil {
				return decimal.NullDecimal{}, nil
			}
			return decimal.NullDecimal{Decimal: d, Valid: true}, nil

		default:
			return data, nil
		}
	}
}

func toDecimal(data any, parse func(string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	switch v := data.(type) {
	case decimal.Decimal:
		return v, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Decimal{}, fmt.Errorf("빈 문자열은 숫자로 변환할 수 없습니다")
		}
		return parse(s)
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%T 타입은 숫자로 변환할 수 없습니다", data)
	}
}
