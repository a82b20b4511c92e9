// Package notification 가격 알림을 알림 서비스로 발송하고, 운영자에게 워커 상태를 알립니다.
package notification

import (
	"context"
	"net/http"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/apiclient"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/shopspring/decimal"
)

const component = "notification.dispatcher"

// notifyRequest 알림 서비스 요청 본문. 배포 버전에 따라 포르투갈어 필드명을 읽는 경우가 있어 둘 다 채운다.
type notifyRequest struct {
	ChatID       string `json:"chat_id"`
	Message      string `json:"message"`
	Destinatario string `json:"destinatario"`
	Mensagem     string `json:"mensagem"`
}

// Dispatcher 가격 알림을 알림 서비스로 발송합니다.
type Dispatcher struct {
	api      *apiclient.Client
	path     string
	contacts contract.CatalogReader
}

var _ contract.Notifier = (*Dispatcher)(nil)

// NewDispatcher baseURL은 NOTIFICATION_SERVICE_URL, path는 발송 경로(/notify 또는 /notificacao)입니다.
// contacts는 상품에 연락처 ID만 있을 때 연락처를 조회하는 데 사용합니다.
func NewDispatcher(f fetcher.Fetcher, baseURL, path string, contacts contract.CatalogReader) *Dispatcher {
	return &Dispatcher{
		api:      apiclient.New(f, baseURL, component),
		path:     path,
		contacts: contacts,
	}
}

// Notify 상품의 연락처로 가격 알림을 발송합니다.
//
// 연락처를 확인할 수 없으면 Skipped, 알림 서비스 호출이 실패하면 Failed를 반환합니다.
// 어느 경우에도 이번 주기 안에서 재시도하지 않으며, 조건이 유지되면 다음 주기에 다시 발송됩니다.
func (d *Dispatcher) Notify(ctx context.Context, product contract.Product, currentPrice decimal.Decimal) contract.Outcome {
	logger := applog.FromContext(ctx, component)

	contact, outcome, ok := d.resolveContact(ctx, product)
	if !ok {
		entry := logger.WithField("reason", outcome.Reason)
		if outcome.Err != nil {
			entry = entry.WithError(outcome.Err)
		}
		if outcome.Reason == contract.ReasonContactLookupFailed {
			entry.Warn("연락처 조회에 실패하여 이번 주기의 알림을 건너뜁니다")
		} else {
			entry.Info("알림을 받을 수 있는 연락처가 없어 알림을 건너뜁니다")
		}
		return outcome
	}

	message := BuildMessage(product, currentPrice)
	req := notifyRequest{
		ChatID:       contact.DeliveryAddress,
		Message:      message,
		Destinatario: contact.DeliveryAddress,
		Mensagem:     message,
	}

	if _, err := d.api.Do(ctx, http.MethodPost, d.path, req); err != nil {
		err = apperrors.Wrapf(err, apperrors.UnderlyingType(err), "상품(%s)의 가격 알림을 발송할 수 없습니다", product.ID)

		logger.WithError(err).WithField("contact_id", contact.ID).Error("가격 알림 발송 실패")

		return contract.Failed(contract.ReasonNotifyFailed, err)
	}

	logger.WithFields(applog.Fields{
		"contact_id":    contact.ID,
		"current_price": currentPrice.String(),
	}).Info("가격 알림 발송 완료")

	return contract.Sent()
}

// resolveContact 내장된 연락처를 우선 사용하고, 없으면 연락처 ID로 조회합니다.
func (d *Dispatcher) resolveContact(ctx context.Context, product contract.Product) (*contract.Contact, contract.Outcome, bool) {
	if !product.HasContactReference() {
		return nil, contract.Skipped(contract.ReasonMissingContact, nil), false
	}

	contact := product.Contact
	if contact == nil {
		c, err := d.contacts.GetContact(ctx, product.ContactID)
		if err != nil {
			if apperrors.Is(err, apperrors.NotFound) {
				return nil, contract.Skipped(contract.ReasonMissingContact, err), false
			}
			return nil, contract.Skipped(contract.ReasonContactLookupFailed, err), false
		}
		contact = c
	}

	if contact.DeliveryAddress == "" {
		return nil, contract.Skipped(contract.ReasonMissingDeliveryAddress, nil), false
	}

	return contact, contract.Outcome{}, true
}
