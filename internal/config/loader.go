package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigFileEnv JSON 설정 파일 경로를 지정하는 환경 변수
	ConfigFileEnv = "PRICE_WATCHER_CONFIG"

	// EnvPrefix 설정 키를 직접 지정하는 환경 변수 접두사.
	// 이중 언더스코어(__)는 계층 구분자입니다. (예: PRICE_WATCHER_HTTP__MAX_RESPONSE_BYTES -> http.max_response_bytes)
	EnvPrefix = "PRICE_WATCHER_"

	// DefaultEnvFile 작업 디렉터리에서 찾는 dotenv 파일
	DefaultEnvFile = ".env"
)

// envKeys 배포 환경에서 사용하는 환경 변수 이름과 설정 키의 대응표
var envKeys = map[string]string{
	"DATA_API_URL":             "services.data_api_url",
	"SCRAPER_SERVICE_URL":      "services.scraper_service_url",
	"NOTIFICATION_SERVICE_URL": "services.notification_service_url",
	"NOTIFICATION_PATH":        "services.notification_path",

	"SWEEP_INTERVAL":   "sweep.interval",
	"SWEEP_TIME_SPEC":  "sweep.time_spec",
	"SWEEP_MAX_CYCLES": "sweep.max_cycles",

	"HTTP_TIMEOUT":       "http.timeout",
	"HTTP_MAX_RETRIES":   "http.max_retries",
	"HTTP_RETRY_DELAY":   "http.retry_delay",
	"SCRAPER_RATE_LIMIT": "http.scraper_rate_limit",

	"DEBUG":   "debug",
	"LOG_DIR": "log.dir",

	"OPERATOR_TELEGRAM_BOT_TOKEN": "operator.telegram.bot_token",
	"OPERATOR_TELEGRAM_CHAT_ID":   "operator.telegram.chat_id",
}

func envNameOf(key string) string {
	for name, k := range envKeys {
		if k == key {
			return name
		}
	}
	return ""
}

// LoadOptions 설정 로드 옵션
type LoadOptions struct {
	// ConfigFile JSON 설정 파일 경로. 비어 있으면 ConfigFileEnv 환경 변수를 참조하고, 그마저 없으면 파일을 읽지 않습니다.
	ConfigFile string

	// EnvFile dotenv 파일 경로. 비어 있으면 읽지 않으며, 파일이 없어도 에러가 아닙니다.
	EnvFile string
}

// Load 기본 옵션으로 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithOptions(LoadOptions{EnvFile: DefaultEnvFile})
}

// LoadWithOptions 설정을 로드하고 검증합니다.
func LoadWithOptions(opts LoadOptions) (*AppConfig, error) {
	// 1. dotenv (실제 환경 변수가 우선한다)
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("dotenv 파일을 읽을 수 없습니다: '%s'", opts.EnvFile))
		}
	}

	k := koanf.New(".")

	// 2. 기본값
	if err := k.Load(structs.Provider(DefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "기본 설정 로드에 실패했습니다")
	}

	// 3. JSON 설정 파일
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnv)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), json.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", configFile))
			}
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", configFile))
		}
	}

	// 4. 환경 변수 (배포용 이름)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 5. 환경 변수 (접두사 형식, 가장 높은 우선순위)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		if s == ConfigFileEnv {
			return ""
		}
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	appConfig.normalize()

	if err := appConfig.validate(); err != nil {
		return nil, err
	}

	return &appConfig, nil
}

// normalize 주소 끝의 '/'를 제거하여 경로 결합 시 '//'가 생기지 않게 합니다.
func (c *AppConfig) normalize() {
	c.Services.DataAPIURL = strings.TrimRight(strings.TrimSpace(c.Services.DataAPIURL), "/")
	c.Services.ScraperServiceURL = strings.TrimRight(strings.TrimSpace(c.Services.ScraperServiceURL), "/")
	c.Services.NotificationServiceURL = strings.TrimRight(strings.TrimSpace(c.Services.NotificationServiceURL), "/")
	c.Services.NotificationPath = strings.TrimSpace(c.Services.NotificationPath)
	c.Sweep.TimeSpec = strings.TrimSpace(c.Sweep.TimeSpec)
}

func (c *AppConfig) validate() error {
	return checkStruct(c)
}

// VerifyRecommendations 실행을 막지는 않지만 운영상 주의가 필요한 설정에 대한 경고 목록을 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.Sweep.TimeSpec == "" && c.Sweep.IntervalDuration() < c.HTTP.TimeoutDuration() {
		warnings = append(warnings, fmt.Sprintf("감시 주기 간격(%s)이 HTTP 요청 타임아웃(%s)보다 짧습니다. 느린 응답이 이어지면 주기가 지연될 수 있습니다", c.Sweep.Interval, c.HTTP.Timeout))
	}

	services := []struct{ name, url string }{
		{"DATA_API_URL", c.Services.DataAPIURL},
		{"SCRAPER_SERVICE_URL", c.Services.ScraperServiceURL},
		{"NOTIFICATION_SERVICE_URL", c.Services.NotificationServiceURL},
	}
	for _, svc := range services {
		if strings.HasPrefix(svc.url, "http://") && !isInternalHost(svc.url) {
			warnings = append(warnings, fmt.Sprintf("%s가 암호화되지 않은 http 주소를 사용합니다: '%s'", svc.name, svc.url))
		}
	}

	return warnings
}

// isInternalHost 컨테이너 네트워크 내부 주소(점이 없는 호스트명, localhost)인지 판별합니다.
func isInternalHost(rawURL string) bool {
	host := strings.TrimPrefix(rawURL, "http://")
	if idx := strings.IndexAny(host, ":/"); idx != -1 {
		host = host[:idx]
	}
	return host == "localhost" || host == "127.0.0.1" || !strings.Contains(host, ".")
}
