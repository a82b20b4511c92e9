package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/price-watcher/internal/config"
	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/darkkaiser/price-watcher/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const operatorComponent = "notification.operator"

const (
	// telegramHTTPTimeout 텔레그램 API 호출 타임아웃. 기본 http.Client에는 타임아웃이 없다.
	telegramHTTPTimeout = 30 * time.Second

	// 텔레그램 API 정책(채팅방당 초당 1회)
	telegramRateLimit = 1
	telegramRateBurst = 1

	// maxReportErrorRunes 운영자 메시지에 포함할 에러 문구의 최대 길이
	maxReportErrorRunes = 500
)

// botClient 텔레그램 봇 API 중 운영자 알림에 필요한 부분
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewOperatorReporter 운영자 텔레그램 설정이 있으면 TelegramReporter를, 없으면 아무것도 하지 않는 reporter를 반환합니다.
func NewOperatorReporter(cfg config.OperatorConfig, debug bool) (contract.OperatorReporter, error) {
	if !cfg.Telegram.Enabled() {
		applog.WithComponent(operatorComponent).Debug("운영자 텔레그램 설정이 없어 운영자 알림을 사용하지 않습니다")
		return NopReporter{}, nil
	}

	applog.WithComponentAndFields(operatorComponent, applog.Fields{
		"bot_token": strutil.MaskSensitiveData(cfg.Telegram.BotToken),
		"chat_id":   cfg.Telegram.ChatID,
	}).Debug("운영자 텔레그램 봇 클라이언트를 초기화합니다")

	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: telegramHTTPTimeout})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 API 클라이언트를 초기화할 수 없습니다. BotToken이 올바른지 확인해주세요")
	}
	botAPI.Debug = debug

	return newTelegramReporter(botAPI, cfg.Telegram.ChatID), nil
}

// NopReporter 운영자 알림을 사용하지 않을 때의 reporter
type NopReporter struct{}

func (NopReporter) CatalogUnavailable(context.Context, error) {}
func (NopReporter) CatalogRecovered(context.Context)          {}

// TelegramReporter 카탈로그 장애와 복구를 운영자 텔레그램 채팅방으로 알립니다.
//
// 상태가 바뀔 때만 메시지를 보냅니다. 장애가 여러 주기 동안 이어져도 메시지는 한 번입니다.
type TelegramReporter struct {
	bot     botClient
	chatID  int64
	limiter *rate.Limiter

	mu          sync.Mutex
	catalogDown bool
}

var _ contract.OperatorReporter = (*TelegramReporter)(nil)

func newTelegramReporter(bot botClient, chatID int64) *TelegramReporter {
	return &TelegramReporter{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(telegramRateLimit), telegramRateBurst),
	}
}

func (r *TelegramReporter) CatalogUnavailable(ctx context.Context, err error) {
	if !r.transition(true) {
		return
	}

	cause := "unknown"
	if err != nil {
		cause = strutil.Truncate(err.Error(), maxReportErrorRunes)
	}

	r.send(ctx, fmt.Sprintf("⚠️ price-watcher: 카탈로그 서비스를 조회할 수 없습니다.\n\n%s", cause))
}

func (r *TelegramReporter) CatalogRecovered(ctx context.Context) {
	if !r.transition(false) {
		return
	}

	r.send(ctx, "✅ price-watcher: 카탈로그 서비스 조회가 다시 정상화되었습니다.")
}

// transition 카탈로그 상태를 갱신하고 상태가 바뀌었는지 반환합니다.
func (r *TelegramReporter) transition(down bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.catalogDown == down {
		return false
	}
	r.catalogDown = down

	return true
}

// send 실패는 로그만 남깁니다. 운영자 알림 실패가 감시 주기에 영향을 주어서는 안 된다.
func (r *TelegramReporter) send(ctx context.Context, text string) {
	logger := applog.FromContext(ctx, operatorComponent).WithField("chat_id", r.chatID)

	if err := r.limiter.Wait(ctx); err != nil {
		logger.WithError(err).Debug("처리율 제한 대기 중 컨텍스트가 취소되어 운영자 알림을 보내지 않습니다")
		return
	}

	if _, err := r.bot.Send(tgbotapi.NewMessage(r.chatID, text)); err != nil {
		code, retryAfter := parseTelegramError(err)
		logger.WithError(err).WithFields(applog.Fields{
			"code":        code,
			"retry_after": retryAfter,
		}).Warn("운영자 텔레그램 알림 발송 실패")
		return
	}

	logger.Info("운영자 텔레그램 알림 발송 완료")
}

// parseTelegramError 텔레그램 API 에러에서 에러 코드와 Retry-After 값을 추출합니다.
func parseTelegramError(err error) (code int, retryAfter int) {
	var apiErr tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}

	var apiErrPtr *tgbotapi.Error
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, apiErrPtr.ResponseParameters.RetryAfter
	}

	return 0, 0
}
