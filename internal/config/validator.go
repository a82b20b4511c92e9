package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// 텔레그램 봇 토큰 형식 (예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11)
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 에러의 Namespace에 구조체 필드명 대신 JSON 키를 사용한다. (예: services.data_api_url)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}
	mustRegister("duration", validateDuration)
	mustRegister("min_duration", validateMinDuration)
	mustRegister("cron_spec", validateCronSpec)
	mustRegister("telegram_bot_token", validateTelegramBotToken)

	return v
}

func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

// validateMinDuration 파라미터로 주어진 최소 시간 이상인지 검사합니다. (예: min_duration=1s)
// 형식 자체가 잘못된 값은 duration 태그가 먼저 걸러냅니다.
func validateMinDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	if err != nil {
		return true
	}
	minimum, err := time.ParseDuration(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("min_duration 태그의 파라미터가 올바르지 않습니다: '%s'", fl.Param()))
	}
	return d >= minimum
}

func validateCronSpec(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// checkStruct 구조체를 검증하고, 첫 번째 검증 실패를 사용자 친화적인 메시지로 변환합니다.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return apperrors.New(apperrors.InvalidInput, describeFieldError(validationErrors[0]))
	}

	return apperrors.Wrap(err, apperrors.InvalidInput, "설정 검증 중 알 수 없는 오류가 발생했습니다")
}

func describeFieldError(fe validator.FieldError) string {
	key := fe.Namespace()
	if idx := strings.Index(key, "."); idx != -1 {
		key = key[idx+1:]
	}

	label := key
	if name := envNameOf(key); name != "" {
		label = fmt.Sprintf("%s(%s)", name, key)
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("필수 설정값 %s이(가) 설정되지 않았습니다", label)
	case "http_url":
		return fmt.Sprintf("%s은(는) http 또는 https로 시작하는 절대 URL이어야 합니다: '%v'", label, fe.Value())
	case "startswith":
		return fmt.Sprintf("%s은(는) '%s'(으)로 시작해야 합니다: '%v'", label, fe.Param(), fe.Value())
	case "duration":
		return fmt.Sprintf("%s의 시간 간격 형식이 올바르지 않습니다: '%v' (예: 30s, 1m)", label, fe.Value())
	case "min_duration":
		return fmt.Sprintf("%s은(는) %s 이상이어야 합니다: '%v'", label, fe.Param(), fe.Value())
	case "cron_spec":
		return fmt.Sprintf("%s의 cron 표현식이 올바르지 않습니다: '%v' (초 단위를 포함한 6필드 형식, 예: 0 */5 * * * *)", label, fe.Value())
	case "telegram_bot_token":
		return fmt.Sprintf("%s의 텔레그램 봇 토큰 형식이 올바르지 않습니다", label)
	case "required_with":
		return fmt.Sprintf("%s은(는) 텔레그램 봇 토큰이 설정된 경우 필수입니다", label)
	case "min", "max":
		return fmt.Sprintf("%s의 값이 허용 범위를 벗어났습니다: '%v' (조건: %s=%s)", label, fe.Value(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s 설정이 올바르지 않습니다 (조건: %s)", label, fe.Tag())
	}
}
