package log

import (
	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 상품 처리 실패, 외부 서비스 호출 실패 등 운영자가 확인해야 하는 상황
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 건너뛴 상품, 해석할 수 없는 카탈로그 레코드 등 주의가 필요한 상황
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel 주기 시작/종료, 알림 발송 등 정상 흐름
	InfoLevel Level = logrus.InfoLevel

	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

type (
	Fields    = logrus.Fields
	Entry     = logrus.Entry
	Hook      = logrus.Hook
	Logger    = logrus.Logger
	Formatter = logrus.Formatter
)
