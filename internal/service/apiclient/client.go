// Package apiclient 협력 서비스의 JSON API를 호출하는 공통 클라이언트를 제공합니다.
//
// 요청 본문 인코딩, 응답 본문의 UTF-8 변환, json.Number를 사용하는 디코딩을 담당하며
// 재시도나 상태 코드 검증 같은 전송 정책은 주입받은 fetcher 체인에 맡깁니다.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/price-watcher/internal/pkg/errors"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
	"golang.org/x/net/html/charset"
)

// Response 본문을 모두 읽어 UTF-8로 변환한 응답입니다.
type Response struct {
	StatusCode  int
	Header      http.Header
	ContentType string
	Body        []byte
}

// Client 하나의 협력 서비스(base URL)에 대한 JSON 클라이언트입니다.
type Client struct {
	fetcher   fetcher.Fetcher
	baseURL   string
	component string
}

// New baseURL의 끝에 있는 '/'는 제거됩니다.
func New(f fetcher.Fetcher, baseURL, component string) *Client {
	return &Client{
		fetcher:   f,
		baseURL:   strings.TrimRight(baseURL, "/"),
		component: component,
	}
}

// URL path를 base URL에 이어 붙인 전체 URL을 반환합니다.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do 요청을 보내고 응답 본문 전체를 반환합니다. body가 nil이 아니면 JSON으로 인코딩합니다.
//
// 전송 실패와 허용되지 않은 상태 코드는 fetcher 체인이 분류한 에러 타입을 유지한 채로 감싸서 반환합니다.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	url := c.URL(path)

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, newErrEncodeBody(err, url)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "요청(%s %s)을 생성할 수 없습니다", method, url)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, newErrRequestFailed(err, method, url)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	var r io.Reader = resp.Body
	if utf8Reader, err := charset.NewReader(resp.Body, contentType); err == nil {
		r = utf8Reader
	} else {
		applog.FromContext(ctx, c.component).WithError(err).
			WithField("content_type", contentType).
			Warn("응답의 문자 인코딩을 변환할 수 없어 원본 그대로 처리합니다")
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrapf(err, classify(err), "응답 본문(%s %s)을 읽는 중 오류가 발생했습니다", method, url)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		ContentType: contentType,
		Body:        b,
	}, nil
}

// GetJSON GET 요청의 응답을 v로 디코딩합니다.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return resp.DecodeJSON(v)
}

// DecodeJSON 응답 본문을 v로 디코딩합니다. 숫자는 json.Number로 보존되며 본문이 비어 있으면 아무것도 하지 않습니다.
func (r *Response) DecodeJSON(v any) error {
	if r.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}

	if isHTMLContentType(r.ContentType) {
		return newErrUnexpectedHTML(r.ContentType, r.Body)
	}

	return DecodeJSON(r.Body, v)
}

// DecodeJSON data를 v로 디코딩합니다. JSON 값 뒤에 다른 데이터가 이어지면 실패합니다.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return newErrDecode(err, data)
	}
	if _, err := dec.Token(); err != io.EOF {
		return newErrTrailingData(data)
	}

	return nil
}

func isHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
