package contract

import (
	"github.com/shopspring/decimal"
)

// Product 카탈로그 서비스가 관리하는 감시 대상 상품입니다.
//
// 워커는 매 주기마다 카탈로그 전체를 다시 조회하므로 이 값을 주기 사이에 보관하지 않습니다.
type Product struct {
	ID   string
	Name string

	// SourceURL 스크래퍼 서비스에 전달할 상품 페이지 주소. 비어 있으면 해당 주기에서 건너뜁니다.
	SourceURL string

	// TargetPrice 알림 기준 가격. 누락되었거나 해석할 수 없으면 Valid가 false입니다.
	TargetPrice decimal.NullDecimal

	// TargetPriceRaw 진단 로그용 원본 텍스트
	TargetPriceRaw string

	// ContactID와 Contact 중 하나로 연락처를 참조합니다. 내장된 Contact가 우선합니다.
	ContactID string
	Contact   *Contact
}

// HasContactReference 연락처 참조(내장 또는 ID)가 있는지 확인합니다.
func (p *Product) HasContactReference() bool {
	return p.Contact != nil || p.ContactID != ""
}

// Contact 알림 수신자입니다.
type Contact struct {
	ID   string
	Name string

	// DeliveryAddress 알림 서비스가 사용하는 수신 주소(채팅 ID, 전화번호 등)
	DeliveryAddress string
}
