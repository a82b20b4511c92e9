// Package cronx 감시 주기 스케줄 계산에 쓰는 cron 파서와 스케줄 생성 함수를 제공합니다.
package cronx

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함하는 6필드 형식과 Descriptor(@daily, @every 1m 등)를 지원하는 파서를 반환합니다.
//
// 필드 순서: [초] [분] [시] [일] [월] [요일]
// 표준 5필드 형식은 지원하지 않습니다.
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate cron 표현식이 StandardParser로 해석 가능한지 검사합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}

// NewSchedule 다음 감시 주기의 시작 시각을 계산하는 스케줄을 생성합니다.
//
// spec이 비어 있으면 interval 간격의 고정 지연 스케줄(cron.Every)을 사용하며,
// 호출자는 주기가 끝난 시각을 기준으로 Next를 호출하므로 주기가 겹치지 않습니다.
// cron.Every는 1초 미만을 1초로 올림하므로 interval은 1초 이상이어야 합니다.
func NewSchedule(spec string, interval time.Duration) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec != "" {
		schedule, err := StandardParser().Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("cron 표현식 파싱 실패(spec=%q): %w", spec, err)
		}
		return schedule, nil
	}

	if interval < time.Second {
		return nil, fmt.Errorf("감시 주기 간격은 1초 이상이어야 합니다: %s", interval)
	}

	return cron.Every(interval), nil
}
