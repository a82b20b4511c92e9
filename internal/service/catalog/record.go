package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/pricing"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/darkkaiser/price-watcher/pkg/maputil"
	"github.com/shopspring/decimal"
)

// 카탈로그 서비스의 포르투갈어 필드 이름과 영문 별칭을 정식 필드 이름으로 대응시킵니다.
var productAliases = map[string]string{
	"nome":           "name",
	"title":          "name",
	"url":            "source_url",
	"link":           "source_url",
	"product_url":    "source_url",
	"preco_alvo":     "target_price",
	"preco_desejado": "target_price",
	"contato":        "contact",
	"contato_id":     "contact_id",
	"id_contato":     "contact_id",
}

var contactAliases = map[string]string{
	"nome":             "name",
	"chat_id":          "delivery_address",
	"telefone":         "delivery_address",
	"phone":            "delivery_address",
	"whatsapp":         "delivery_address",
	"endereco_entrega": "delivery_address",
}

// 목록 응답이 객체로 감싸져 있을 때 배열을 찾는 키
var listEnvelopeKeys = []string{"data", "produtos", "products", "items"}

type productRecord struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	SourceURL   string              `json:"source_url"`
	TargetPrice decimal.NullDecimal `json:"target_price"`
	ContactID   string              `json:"contact_id"`

	// Contact 내장 객체이거나 연락처 ID
	Contact any `json:"contact"`
}

type contactRecord struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DeliveryAddress string `json:"delivery_address"`
}

// unwrapList 최상위 배열 또는 envelope 객체 안의 배열을 꺼냅니다.
func unwrapList(v any) ([]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil

	case []any:
		return t, nil

	case map[string]any:
		for _, key := range listEnvelopeKeys {
			if list, ok := t[key].([]any); ok {
				return list, nil
			}
		}
	}

	return nil, apperrors.Newf(apperrors.ParsingFailed, "상품 목록 응답에서 배열을 찾을 수 없습니다 (타입: %T)", v)
}

// unwrapObject 단건 응답이 data 키로 감싸져 있으면 꺼냅니다.
func unwrapObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if inner, ok := m["data"].(map[string]any); ok {
		return inner, true
	}
	return m, true
}

// decodeProduct 카탈로그 레코드 하나를 Product로 변환합니다.
//
// 내장 연락처만 해석할 수 없는 경우에는 상품을 버리지 않고 연락처 없이 반환합니다.
// 가격 조회와 기록은 연락처와 무관하게 진행되어야 하며, 알림 단계에서 연락처 부재로 건너뛰게 됩니다.
func decodeProduct(raw any, logger *applog.Entry) (contract.Product, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return contract.Product{}, apperrors.Newf(apperrors.ParsingFailed, "상품 레코드가 객체가 아닙니다 (타입: %T)", raw)
	}
	m = maputil.CanonicalKeys(m, productAliases)

	rec, err := maputil.Decode[productRecord](m, maputil.WithDecodeHook(maputil.DecimalHookFunc(pricing.Normalize)))
	if err != nil {
		return contract.Product{}, apperrors.Wrap(err, apperrors.ParsingFailed, "상품 레코드를 해석할 수 없습니다")
	}

	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return contract.Product{}, apperrors.New(apperrors.ParsingFailed, "상품 레코드에 id가 없습니다")
	}

	p := contract.Product{
		ID:             id,
		Name:           strings.TrimSpace(rec.Name),
		SourceURL:      strings.TrimSpace(rec.SourceURL),
		TargetPrice:    rec.TargetPrice,
		TargetPriceRaw: rawString(m["target_price"]),
		ContactID:      strings.TrimSpace(rec.ContactID),
	}

	switch c := rec.Contact.(type) {
	case nil:
	case map[string]any:
		contact, err := decodeContact(c)
		if err != nil {
			logger.WithError(err).WithField("product_id", id).Warn("내장 연락처를 해석할 수 없어 연락처 없이 상품을 처리합니다")
			break
		}
		p.Contact = contact
		if p.ContactID == "" {
			p.ContactID = contact.ID
		}
	case string, json.Number, float64, int, int64:
		if p.ContactID == "" {
			p.ContactID = strings.TrimSpace(fmt.Sprint(c))
		}
	default:
		logger.WithField("product_id", id).WithField("type", fmt.Sprintf("%T", c)).
			Warn("연락처 필드 형식을 알 수 없어 연락처 없이 상품을 처리합니다")
	}

	return p, nil
}

func decodeContact(m map[string]any) (*contract.Contact, error) {
	rec, err := maputil.Decode[contactRecord](maputil.CanonicalKeys(m, contactAliases))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "연락처 레코드를 해석할 수 없습니다")
	}

	return &contract.Contact{
		ID:              strings.TrimSpace(rec.ID),
		Name:            strings.TrimSpace(rec.Name),
		DeliveryAddress: strings.TrimSpace(rec.DeliveryAddress),
	}, nil
}

// rawString 진단용으로 남길 원본 값의 문자열 표현
func rawString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
