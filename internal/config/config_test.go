package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBotToken = "123456789:ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghi"

// clearEnv 설정에 영향을 주는 환경 변수를 테스트 동안 제거하고, 종료 시 원래 값으로 복원합니다.
func clearEnv(t *testing.T) {
	t.Helper()

	keys := []string{ConfigFileEnv}
	for name := range envKeys {
		keys = append(keys, name)
	}
	for _, e := range os.Environ() {
		if len(e) > len(EnvPrefix) && e[:len(EnvPrefix)] == EnvPrefix {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					keys = append(keys, e[:i])
					break
				}
			}
		}
	}

	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DATA_API_URL", "http://data-api:8000/")
	t.Setenv("SCRAPER_SERVICE_URL", "http://scraper:8001")
	t.Setenv("NOTIFICATION_SERVICE_URL", "http://notifier:8002")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	setRequiredEnv(t)

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "http://data-api:8000", cfg.Services.DataAPIURL, "끝의 '/'는 제거된다")
	assert.Equal(t, "http://scraper:8001", cfg.Services.ScraperServiceURL)
	assert.Equal(t, "http://notifier:8002", cfg.Services.NotificationServiceURL)
	assert.Equal(t, DefaultNotificationPath, cfg.Services.NotificationPath)
	assert.Equal(t, 30*time.Second, cfg.Sweep.IntervalDuration())
	assert.Equal(t, 30*time.Second, cfg.HTTP.TimeoutDuration())
	assert.Equal(t, time.Second, cfg.HTTP.RetryDelayDuration())
	assert.Equal(t, DefaultMaxRetries, cfg.HTTP.MaxRetries)
	assert.Equal(t, DefaultMaxResponseBytes, cfg.HTTP.MaxResponseBytes)
	assert.Equal(t, 0, cfg.Sweep.MaxCycles)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Operator.Telegram.Enabled())
}

func TestLoad_MissingRequiredURL(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"DATA_API_URL 누락", "DATA_API_URL"},
		{"SCRAPER_SERVICE_URL 누락", "SCRAPER_SERVICE_URL"},
		{"NOTIFICATION_SERVICE_URL 누락", "NOTIFICATION_SERVICE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequiredEnv(t)
			t.Setenv(tt.missing, "")

			cfg, err := LoadWithOptions(LoadOptions{})
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			assert.Contains(t, err.Error(), tt.missing)
			assert.Contains(t, err.Error(), "설정되지 않았습니다")
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"URL이 아님", "DATA_API_URL", "data-api:8000", "절대 URL"},
		{"지원하지 않는 스킴", "SCRAPER_SERVICE_URL", "ftp://scraper", "절대 URL"},
		{"잘못된 주기 형식", "SWEEP_INTERVAL", "thirty", "시간 간격 형식"},
		{"너무 짧은 주기", "SWEEP_INTERVAL", "10ms", "1s 이상"},
		{"잘못된 cron", "SWEEP_TIME_SPEC", "* * * * *", "cron 표현식"},
		{"음수 최대 주기", "SWEEP_MAX_CYCLES", "-1", "허용 범위"},
		{"재시도 횟수 초과", "HTTP_MAX_RETRIES", "11", "허용 범위"},
		{"알림 경로 형식", "NOTIFICATION_PATH", "notify", "'/'(으)로 시작"},
		{"잘못된 텔레그램 토큰", "OPERATOR_TELEGRAM_BOT_TOKEN", "invalid", "텔레그램 봇 토큰"},
		{"텔레그램 채팅 ID 누락", "OPERATOR_TELEGRAM_BOT_TOKEN", validBotToken, "chat_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadWithOptions(LoadOptions{})
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	setRequiredEnv(t)
	t.Setenv("NOTIFICATION_PATH", "/notificacao")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("SWEEP_TIME_SPEC", "0 */5 * * * *")
	t.Setenv("SWEEP_MAX_CYCLES", "3")
	t.Setenv("HTTP_MAX_RETRIES", "0")
	t.Setenv("SCRAPER_RATE_LIMIT", "2.5")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_DIR", "/var/log/price-watcher")
	t.Setenv("OPERATOR_TELEGRAM_BOT_TOKEN", validBotToken)
	t.Setenv("OPERATOR_TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("PRICE_WATCHER_HTTP__MAX_RESPONSE_BYTES", "1024")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/notificacao", cfg.Services.NotificationPath)
	assert.Equal(t, time.Minute, cfg.Sweep.IntervalDuration())
	assert.Equal(t, "0 */5 * * * *", cfg.Sweep.TimeSpec)
	assert.Equal(t, 3, cfg.Sweep.MaxCycles)
	assert.Equal(t, 0, cfg.HTTP.MaxRetries)
	assert.Equal(t, 2.5, cfg.HTTP.ScraperRateLimit)
	assert.Equal(t, int64(1024), cfg.HTTP.MaxResponseBytes)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/var/log/price-watcher", cfg.Log.Dir)
	assert.True(t, cfg.Operator.Telegram.Enabled())
	assert.Equal(t, int64(-100123), cfg.Operator.Telegram.ChatID)
}

func TestLoad_UnknownPrefixedKey(t *testing.T) {
	clearEnv(t)
	setRequiredEnv(t)
	t.Setenv("PRICE_WATCHER_UNKNOWN_KEY", "x")

	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "price-watcher.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"services": {
			"data_api_url": "http://file-data:8000",
			"scraper_service_url": "http://file-scraper:8001",
			"notification_service_url": "http://file-notifier:8002"
		},
		"sweep": {"interval": "45s"}
	}`), 0644))

	t.Run("파일 값이 기본값을 덮어쓴다", func(t *testing.T) {
		cfg, err := LoadWithOptions(LoadOptions{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, "http://file-data:8000", cfg.Services.DataAPIURL)
		assert.Equal(t, 45*time.Second, cfg.Sweep.IntervalDuration())
	})

	t.Run("환경 변수가 파일 값을 덮어쓴다", func(t *testing.T) {
		t.Setenv("DATA_API_URL", "http://env-data:8000")
		t.Setenv(ConfigFileEnv, path)

		cfg, err := LoadWithOptions(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "http://env-data:8000", cfg.Services.DataAPIURL)
		assert.Equal(t, "http://file-scraper:8001", cfg.Services.ScraperServiceURL)
	})

	t.Run("파일이 없으면 System 에러", func(t *testing.T) {
		_, err := LoadWithOptions(LoadOptions{ConfigFile: filepath.Join(dir, "missing.json")})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
	})

	t.Run("JSON 문법 오류", func(t *testing.T) {
		broken := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte(`{"services": `), 0644))

		_, err := LoadWithOptions(LoadOptions{ConfigFile: broken})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DATA_API_URL=http://dotenv-data:8000\n"+
			"SCRAPER_SERVICE_URL=http://dotenv-scraper:8001\n"+
			"NOTIFICATION_SERVICE_URL=http://dotenv-notifier:8002\n"), 0644))

	// 실제 환경 변수는 dotenv 값보다 우선한다.
	t.Setenv("SCRAPER_SERVICE_URL", "http://real-scraper:8001")

	cfg, err := LoadWithOptions(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv-data:8000", cfg.Services.DataAPIURL)
	assert.Equal(t, "http://real-scraper:8001", cfg.Services.ScraperServiceURL)

	t.Run("dotenv 파일이 없어도 에러가 아니다", func(t *testing.T) {
		_, err := LoadWithOptions(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
		assert.NoError(t, err)
	})
}

func TestVerifyRecommendations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Services = ServicesConfig{
		DataAPIURL:             "http://data-api:8000",
		ScraperServiceURL:      "http://scraper.example.com",
		NotificationServiceURL: "https://notifier.example.com",
		NotificationPath:       "/notify",
	}
	cfg.Sweep.Interval = "10s"

	warnings := cfg.VerifyRecommendations()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "타임아웃")
	assert.Contains(t, warnings[1], "SCRAPER_SERVICE_URL")
}

func TestSummary_MasksToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Operator.Telegram.BotToken = validBotToken

	summary := cfg.Summary()
	assert.Equal(t, "1234***fghi", summary["operator_telegram_token"])
	assert.NotContains(t, summary, "bot_token")
}
