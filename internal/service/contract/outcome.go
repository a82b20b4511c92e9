package contract

// OutcomeStatus 알림 발송 시도의 결과
type OutcomeStatus int

const (
	OutcomeSent OutcomeStatus = iota
	OutcomeSkipped
	OutcomeFailed
)

var outcomeStatusNames = [...]string{
	OutcomeSent:    "sent",
	OutcomeSkipped: "skipped",
	OutcomeFailed:  "failed",
}

func (s OutcomeStatus) String() string {
	if s < 0 || int(s) >= len(outcomeStatusNames) {
		return "unknown"
	}
	return outcomeStatusNames[s]
}

// Reason 상품을 건너뛰거나 처리에 실패한 이유입니다. 로그에서 원인을 구분하는 용도로 사용합니다.
type Reason string

const (
	ReasonNone Reason = ""

	ReasonMissingSourceURL   Reason = "missing_source_url"
	ReasonInvalidSourceURL   Reason = "invalid_source_url"
	ReasonInvalidTargetPrice Reason = "invalid_target_price"

	ReasonScrapeFailed   Reason = "scrape_failed"
	ReasonPriceMissing   Reason = "price_missing"
	ReasonPriceMalformed Reason = "price_malformed"

	ReasonPersistFailed Reason = "persist_failed"
	ReasonAboveTarget   Reason = "above_target"

	ReasonMissingContact         Reason = "missing_contact"
	ReasonContactLookupFailed    Reason = "contact_lookup_failed"
	ReasonMissingDeliveryAddress Reason = "missing_delivery_address"
	ReasonNotifyFailed           Reason = "notify_failed"

	ReasonPanic Reason = "panic"
)

// Outcome 알림 발송 결과입니다. Err는 Failed이거나 조회 실패로 Skipped일 때 원인을 담습니다.
type Outcome struct {
	Status OutcomeStatus
	Reason Reason
	Err    error
}

func Sent() Outcome {
	return Outcome{Status: OutcomeSent}
}

func Skipped(reason Reason, err error) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason, Err: err}
}

func Failed(reason Reason, err error) Outcome {
	return Outcome{Status: OutcomeFailed, Reason: reason, Err: err}
}
