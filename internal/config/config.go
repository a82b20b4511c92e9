// Package config 가격 감시 워커의 실행 설정을 로드하고 검증합니다.
//
// 설정은 다음 순서로 덮어쓰며, 뒤에 오는 값이 우선합니다.
//
//  1. 기본값 (DefaultConfig)
//  2. JSON 설정 파일 (PRICE_WATCHER_CONFIG 환경 변수로 지정한 경우에만)
//  3. 환경 변수 (.env 파일의 값은 실제 환경 변수를 덮어쓰지 않음)
//
// 외부 서비스 주소 세 가지는 기본값이 없으며 누락 시 로드가 실패합니다.
package config

import (
	"time"

	"github.com/darkkaiser/price-watcher/pkg/strutil"
)

const (
	// AppName 애플리케이션 식별자
	AppName = "price-watcher"

	// DefaultNotificationPath 알림 서비스의 기본 발송 경로
	DefaultNotificationPath = "/notify"

	DefaultSweepInterval = "30s"

	DefaultHTTPTimeout = "30s"

	DefaultMaxRetries = 2
	DefaultRetryDelay = "1s"

	// DefaultMaxResponseBytes 응답 본문 최대 크기 (2MB)
	DefaultMaxResponseBytes int64 = 2 * 1024 * 1024
)

// AppConfig 워커의 전체 설정입니다. 로드 이후에는 변경하지 않고 명시적으로 전달합니다.
type AppConfig struct {
	Debug    bool           `json:"debug"`
	Services ServicesConfig `json:"services"`
	Sweep    SweepConfig    `json:"sweep"`
	HTTP     HTTPConfig     `json:"http"`
	Log      LogConfig      `json:"log"`
	Operator OperatorConfig `json:"operator"`
}

// ServicesConfig 협력 서비스의 접속 정보
type ServicesConfig struct {
	DataAPIURL             string `json:"data_api_url" validate:"required,http_url"`
	ScraperServiceURL      string `json:"scraper_service_url" validate:"required,http_url"`
	NotificationServiceURL string `json:"notification_service_url" validate:"required,http_url"`

	// NotificationPath 배포 환경에 따라 /notify 또는 /notificacao
	NotificationPath string `json:"notification_path" validate:"required,startswith=/"`
}

// SweepConfig 감시 주기 설정
type SweepConfig struct {
	// Interval 한 주기가 끝난 뒤 다음 주기를 시작하기까지의 대기 시간
	Interval string `json:"interval" validate:"required,duration,min_duration=1s"`

	// TimeSpec 지정되면 Interval 대신 cron 표현식(초 포함 6필드)으로 다음 주기를 계산합니다.
	TimeSpec string `json:"time_spec" validate:"omitempty,cron_spec"`

	// MaxCycles 실행할 최대 주기 수 (0이면 종료 신호를 받을 때까지 반복)
	MaxCycles int `json:"max_cycles" validate:"min=0"`
}

// IntervalDuration 검증을 통과한 Interval 값을 time.Duration으로 반환합니다.
func (c SweepConfig) IntervalDuration() time.Duration {
	return mustParseDuration(c.Interval)
}

// HTTPConfig 외부 서비스 호출 정책
type HTTPConfig struct {
	Timeout    string `json:"timeout" validate:"required,duration,min_duration=1ms"`
	MaxRetries int    `json:"max_retries" validate:"min=0,max=10"`
	RetryDelay string `json:"retry_delay" validate:"required,duration"`

	MaxResponseBytes int64 `json:"max_response_bytes" validate:"min=0"`

	// ScraperRateLimit 스크래퍼 서비스에 대한 초당 최대 요청 수 (0이면 제한 없음)
	ScraperRateLimit float64 `json:"scraper_rate_limit" validate:"min=0"`

	UserAgent string `json:"user_agent"`
}

func (c HTTPConfig) TimeoutDuration() time.Duration {
	return mustParseDuration(c.Timeout)
}

func (c HTTPConfig) RetryDelayDuration() time.Duration {
	return mustParseDuration(c.RetryDelay)
}

// LogConfig 로그 파일 설정. Dir이 비어 있으면 표준 출력에만 기록합니다.
type LogConfig struct {
	Dir    string `json:"dir"`
	MaxAge int    `json:"max_age" validate:"min=0"`
}

// OperatorConfig 운영자 알림 채널 설정
type OperatorConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig 운영자 텔레그램 알림 설정. BotToken이 비어 있으면 사용하지 않습니다.
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_with=BotToken"`
}

// Enabled 운영자 텔레그램 알림 사용 여부
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// DefaultConfig 기본값이 채워진 설정을 반환합니다.
func DefaultConfig() AppConfig {
	return AppConfig{
		Services: ServicesConfig{
			NotificationPath: DefaultNotificationPath,
		},
		Sweep: SweepConfig{
			Interval: DefaultSweepInterval,
		},
		HTTP: HTTPConfig{
			Timeout:          DefaultHTTPTimeout,
			MaxRetries:       DefaultMaxRetries,
			RetryDelay:       DefaultRetryDelay,
			MaxResponseBytes: DefaultMaxResponseBytes,
			UserAgent:        AppName,
		},
		Log: LogConfig{
			MaxAge: 30,
		},
	}
}

func mustParseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic("검증되지 않은 duration 값입니다: " + s)
	}
	return d
}

// Summary 시작 로그에 남길 주요 설정값을 반환합니다. 민감 정보는 마스킹됩니다.
func (c *AppConfig) Summary() map[string]any {
	return map[string]any{
		"data_api_url":             c.Services.DataAPIURL,
		"scraper_service_url":      c.Services.ScraperServiceURL,
		"notification_service_url": c.Services.NotificationServiceURL,
		"notification_path":        c.Services.NotificationPath,
		"sweep_interval":           c.Sweep.Interval,
		"sweep_time_spec":          c.Sweep.TimeSpec,
		"sweep_max_cycles":         c.Sweep.MaxCycles,
		"http_timeout":             c.HTTP.Timeout,
		"http_max_retries":         c.HTTP.MaxRetries,
		"operator_telegram_token":  strutil.MaskSensitiveData(c.Operator.Telegram.BotToken),
		"debug":                    c.Debug,
	}
}
