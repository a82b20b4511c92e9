// Package maputil 외부 서비스가 돌려준 느슨한 형식의 레코드(map)를 구조체로 변환하는 기능을 제공합니다.
package maputil

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode input을 T 타입 구조체로 변환하여 반환합니다.
//
// 기본 동작:
//   - json 태그 기준으로 필드를 매핑합니다.
//   - 타입을 유연하게 보정합니다. (예: 숫자 ID 123 -> "123")
//   - 구조체에 없는 키는 무시합니다.
//
// 키 표기가 제각각인 레코드는 CanonicalKeys로 먼저 정리한 뒤 전달합니다.
//
//	product, err := maputil.Decode[productRecord](maputil.CanonicalKeys(raw, aliases),
//	    maputil.WithDecodeHook(maputil.DecimalHookFunc(nil)),
//	)
func Decode[T any](input any, opts ...Option) (*T, error) {
	cfg := &decodingConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	output := new(T)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       cfg.buildDecodeHook(),
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패했습니다: %w", output, err)
	}

	return output, nil
}

type decodingConfig struct {
	extraHooks []mapstructure.DecodeHookFunc
}

// buildDecodeHook 사용자 훅을 기본 훅보다 먼저 실행하는 훅 체인을 구성합니다.
func (c *decodingConfig) buildDecodeHook() mapstructure.DecodeHookFunc {
	hooks := make([]mapstructure.DecodeHookFunc, 0, len(c.extraHooks)+1)
	hooks = append(hooks, c.extraHooks...)
	hooks = append(hooks, mapstructure.TextUnmarshallerHookFunc())

	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

// Option 디코딩 동작을 변경하는 함수형 옵션입니다.
type Option func(*decodingConfig)

// WithDecodeHook 사용자 정의 변환 훅을 추가합니다. 추가된 훅은 기본 훅보다 먼저 실행됩니다.
func WithDecodeHook(hooks ...mapstructure.DecodeHookFunc) Option {
	return func(c *decodingConfig) {
		c.extraHooks = append(c.extraHooks, hooks...)
	}
}
