// Package scraper 스크래퍼 서비스에서 상품의 현재 가격을 조회하고 정확한 10진수로 변환합니다.
package scraper

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/apiclient"
	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/darkkaiser/price-watcher/internal/service/pricing"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const component = "scraper.resolver"

const scrapePath = "/scrape"

// pricePaths 응답에서 가격을 찾는 gjson 경로, 앞에서부터 처음 존재하는 값을 사용합니다.
var pricePaths = []string{"price", "preco", "data.price", "data.preco"}

type scrapeRequest struct {
	URL string `json:"url"`
}

// Resolver 스크래퍼 서비스 클라이언트
type Resolver struct {
	api *apiclient.Client
}

var _ contract.PriceResolver = (*Resolver)(nil)

// New baseURL은 SCRAPER_SERVICE_URL 값입니다. f에는 처리율 제한이 적용된 fetcher 체인을 넘깁니다.
func New(f fetcher.Fetcher, baseURL string) *Resolver {
	return &Resolver{
		api: apiclient.New(f, baseURL, component),
	}
}

// ResolvePrice sourceURL 상품의 현재 가격을 반환합니다.
//
// 정확한 10진수를 반환하거나 에러를 반환하며 부분적으로 해석된 값은 반환하지 않습니다.
// 반환되는 에러는 ErrScrapeFailed, ErrPriceMissing, ErrPriceMalformed 중 하나를 감쌉니다.
func (r *Resolver) ResolvePrice(ctx context.Context, sourceURL string) (decimal.Decimal, error) {
	resp, err := r.api.Do(ctx, http.MethodPost, scrapePath, scrapeRequest{URL: sourceURL})
	if err != nil {
		return decimal.Decimal{}, newErrScrapeFailed(err, sourceURL)
	}

	raw, numeric, err := extractPrice(resp.Body, sourceURL)
	if err != nil {
		return decimal.Decimal{}, err
	}

	price, err := parsePrice(raw, numeric)
	if err != nil {
		return decimal.Decimal{}, newErrPriceMalformed(err, sourceURL, raw)
	}

	applog.FromContext(ctx, component).WithFields(applog.Fields{
		"source_url": sourceURL,
		"raw_price":  raw,
		"price":      price.String(),
	}).Debug("가격 조회 완료")

	return price, nil
}

// parsePrice JSON 숫자는 '.'이 항상 소수 구분자이므로 지역화 규칙을 거치지 않고 그대로 해석합니다.
func parsePrice(raw string, numeric bool) (decimal.Decimal, error) {
	if !numeric {
		return pricing.Normalize(raw)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperrors.Wrap(err, apperrors.ParsingFailed, "JSON 숫자를 10진수로 변환할 수 없습니다")
	}
	if d.IsNegative() {
		return decimal.Decimal{}, pricing.ErrNegativePrice
	}
	return d, nil
}

// extractPrice 응답 본문에서 가격 원문을 꺼냅니다. 문자열과 JSON 숫자를 모두 허용하며
// numeric은 값이 JSON 숫자였는지를 나타냅니다.
func extractPrice(body []byte, sourceURL string) (raw string, numeric bool, err error) {
	if !gjson.ValidBytes(body) {
		return "", false, newErrPriceMissing(sourceURL, "응답이 올바른 JSON이 아닙니다")
	}

	for _, path := range pricePaths {
		result := gjson.GetBytes(body, path)
		if !result.Exists() {
			continue
		}

		switch result.Type {
		case gjson.String:
			return result.Str, false, nil

		case gjson.Number:
			// 부동소수점을 거치지 않도록 원문 그대로 사용한다.
			return strings.TrimSpace(result.Raw), true, nil

		case gjson.Null:
			return "", false, newErrPriceMissing(sourceURL, path+" 값이 null입니다")

		default:
			return "", false, newErrPriceMissing(sourceURL, path+" 값이 문자열이나 숫자가 아닙니다")
		}
	}

	return "", false, newErrPriceMissing(sourceURL, "price 필드가 없습니다")
}
