// Package service 워커를 구성하는 장기 실행 서비스의 공통 생명주기를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service main에서 시작하고 serviceStopCtx 취소로 종료하는 서비스입니다.
//
// Start는 serviceStopWG.Add(1)이 호출된 상태에서 호출되며, 서비스가 완전히 종료되면
// (시작에 실패한 경우 포함) 정확히 한 번 serviceStopWG.Done()을 호출해야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
