package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/darkkaiser/price-watcher/internal/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeBot struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.texts = append(b.texts, msg.Text)
	}
	return tgbotapi.Message{}, b.err
}

func (b *fakeBot) sent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}

func newTestReporter(bot botClient) *TelegramReporter {
	r := newTelegramReporter(bot, 42)
	r.limiter = rate.NewLimiter(rate.Inf, 1)
	return r
}

func TestTelegramReporter_EdgeTriggered(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{}
	r := newTestReporter(bot)
	ctx := context.Background()

	r.CatalogRecovered(ctx)
	assert.Empty(t, bot.sent(), "장애가 없었으면 복구 알림을 보내지 않는다")

	r.CatalogUnavailable(ctx, errors.New("connection refused"))
	r.CatalogUnavailable(ctx, errors.New("connection refused"))
	r.CatalogUnavailable(ctx, nil)

	sent := bot.sent()
	require.Len(t, sent, 1, "장애가 이어지는 동안에는 한 번만 알린다")
	assert.Contains(t, sent[0], "connection refused")

	r.CatalogRecovered(ctx)
	r.CatalogRecovered(ctx)

	sent = bot.sent()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1], "정상화")

	r.CatalogUnavailable(ctx, errors.New("again"))
	assert.Len(t, bot.sent(), 3)
}

func TestTelegramReporter_SendFailureIsLogged(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	bot := &fakeBot{err: tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}
	r := newTestReporter(bot)

	r.CatalogUnavailable(context.Background(), errors.New("boom"))

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["component"] == operatorComponent {
			found = true
			assert.Equal(t, 403, entry.Data["code"])
		}
	}
	assert.True(t, found, "발송 실패는 경고 로그로 남긴다")
}

func TestTelegramReporter_CanceledContext(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{}
	r := newTelegramReporter(bot, 42)
	r.limiter = rate.NewLimiter(rate.Limit(0.001), 1)

	// 첫 토큰을 소진시켜 다음 Wait가 대기하도록 한다.
	r.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.CatalogUnavailable(ctx, errors.New("boom"))
	assert.Empty(t, bot.sent())
}

func TestNewOperatorReporter_Disabled(t *testing.T) {
	t.Parallel()

	r, err := NewOperatorReporter(config.OperatorConfig{}, false)
	require.NoError(t, err)
	assert.IsType(t, NopReporter{}, r)

	// 아무 일도 일어나지 않아야 한다.
	r.CatalogUnavailable(context.Background(), errors.New("boom"))
	r.CatalogRecovered(context.Background())
}

func TestParseTelegramError(t *testing.T) {
	t.Parallel()

	code, retryAfter := parseTelegramError(tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 5}})
	assert.Equal(t, 429, code)
	assert.Equal(t, 5, retryAfter)

	code, retryAfter = parseTelegramError(&tgbotapi.Error{Code: 400})
	assert.Equal(t, 400, code)
	assert.Equal(t, 0, retryAfter)

	code, _ = parseTelegramError(errors.New("network"))
	assert.Equal(t, 0, code)
}
