// Package catalog 카탈로그 서비스(상품, 연락처, 현재 가격 기록) 클라이언트를 제공합니다.
package catalog

import (
	"context"
	"net/http"
	"net/url"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/apiclient"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/darkkaiser/price-watcher/internal/service/pricing"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/shopspring/decimal"
)

const component = "catalog.client"

const (
	productsPath = "/produtos"
	contactsPath = "/contatos"
)

// Client 카탈로그 서비스 클라이언트
type Client struct {
	api *apiclient.Client
}

var _ contract.Catalog = (*Client)(nil)

// New baseURL은 DATA_API_URL 값입니다.
func New(f fetcher.Fetcher, baseURL string) *Client {
	return &Client{
		api: apiclient.New(f, baseURL, component),
	}
}

// ListProducts GET /produtos 로 감시 대상 상품 전체를 조회합니다.
//
// 응답은 최상위 배열이거나 data/produtos/products 키 아래의 배열이어야 합니다.
// 해석할 수 없는 레코드는 경고 로그를 남기고 건너뛰므로 목록 전체가 무효화되지는 않습니다.
func (c *Client) ListProducts(ctx context.Context) ([]contract.Product, error) {
	var body any
	if err := c.api.GetJSON(ctx, productsPath, &body); err != nil {
		return nil, apperrors.Wrap(err, apperrors.UnderlyingType(err), "상품 목록을 조회할 수 없습니다")
	}

	records, err := unwrapList(body)
	if err != nil {
		return nil, err
	}

	logger := applog.FromContext(ctx, component)

	products := make([]contract.Product, 0, len(records))
	for i, raw := range records {
		p, err := decodeProduct(raw, logger)
		if err != nil {
			logger.WithError(err).WithField("index", i).Warn("해석할 수 없는 상품 레코드를 건너뜁니다")
			continue
		}
		products = append(products, p)
	}

	logger.WithFields(applog.Fields{
		"records":  len(records),
		"products": len(products),
	}).Debug("상품 목록 조회 완료")

	return products, nil
}

// GetContact GET /contatos/{id} 로 연락처를 조회합니다.
func (c *Client) GetContact(ctx context.Context, contactID string) (*contract.Contact, error) {
	if contactID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "연락처 ID가 비어 있습니다")
	}

	var body any
	if err := c.api.GetJSON(ctx, contactsPath+"/"+url.PathEscape(contactID), &body); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.UnderlyingType(err), "연락처(%s)를 조회할 수 없습니다", contactID)
	}

	m, ok := unwrapObject(body)
	if !ok {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "연락처(%s) 응답이 객체가 아닙니다 (타입: %T)", contactID, body)
	}

	contact, err := decodeContact(m)
	if err != nil {
		return nil, err
	}
	if contact.ID == "" {
		contact.ID = contactID
	}

	return contact, nil
}

type updatePriceRequest struct {
	CurrentPrice string `json:"preco_atual"`
}

// UpdatePrice PUT /produtos/{id} 로 현재 가격을 기록합니다.
// 가격은 부동소수점을 거치지 않도록 문자열로 전송합니다.
func (c *Client) UpdatePrice(ctx context.Context, productID string, price decimal.Decimal) error {
	req := updatePriceRequest{CurrentPrice: pricing.WireString(price)}

	if _, err := c.api.Do(ctx, http.MethodPut, productsPath+"/"+url.PathEscape(productID), req); err != nil {
		return apperrors.Wrapf(err, apperrors.UnderlyingType(err), "상품(%s)의 현재 가격(%s)을 기록할 수 없습니다", productID, req.CurrentPrice)
	}

	return nil
}
