package log

import (
	"fmt"
	"os"
)

// Options 로깅 시스템 설정입니다.
type Options struct {
	Name  string // 로그 파일명에 사용할 애플리케이션 식별자
	Dir   string // 로그 파일 디렉터리 (빈 값이면 파일 로깅을 하지 않음)
	Level Level

	MaxAge     int // 로테이션된 파일 보관 일수 (0: 삭제하지 않음)
	MaxSizeMB  int // 0이면 defaultMaxSizeMB
	MaxBackups int // 0이면 defaultMaxBackups

	EnableCriticalLog bool // ERROR 이상을 별도 파일에도 기록
	EnableVerboseLog  bool // DEBUG 이하를 별도 파일에 기록
	EnableConsoleLog  bool // 표준 출력에도 기록

	// JSONFormat true이면 콘솔/파일 모두 JSON 한 줄 형식으로 기록합니다. (로그 수집기 연동용)
	JSONFormat bool

	ReportCaller bool

	// CallerPathPrefix 호출 위치의 함수 경로에서 잘라낼 접두사 (예: "github.com/darkkaiser")
	CallerPathPrefix string
}

// Validate 설정값이 유효한지 검사합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir == "" && !opts.EnableConsoleLog {
		return fmt.Errorf("로그 출력 대상이 없습니다: 로그 디렉터리(Dir) 또는 콘솔 출력 중 하나는 활성화되어야 합니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉터리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}
