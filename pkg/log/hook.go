package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 출력 대상을 나눕니다.
//
//   - consoleWriter: 모든 레벨
//   - criticalWriter: ERROR 이상
//   - verboseWriter: DEBUG 이하 (이 레벨은 mainWriter에 기록하지 않음)
//   - mainWriter: INFO 이상
//
// 파일 로깅이 꺼져 있으면 consoleWriter만 설정됩니다.
type hook struct {
	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	consoleWriter  io.Writer

	formatter Formatter

	mu     sync.RWMutex
	closed bool
}

func (h *hook) Levels() []Level {
	return AllLevels
}

func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error
	write := func(w io.Writer, name string) {
		if w == nil {
			return
		}
		if _, err := w.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] %s 로그 쓰기 실패: %v\n", name, err)
		}
	}

	// 콘솔 쓰기 실패는 로깅 전체를 실패시키지 않는다.
	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 콘솔 로그 쓰기 실패: %v\n", err)
		}
	}

	if entry.Level <= ErrorLevel {
		write(h.criticalWriter, "Critical")
	}

	if entry.Level >= DebugLevel {
		write(h.verboseWriter, "Verbose")
		return firstErr
	}

	write(h.mainWriter, "Main")

	return firstErr
}

// Close 이후의 모든 Fire 호출을 무시하도록 전환합니다.
// 진행 중인 Fire가 끝날 때까지 대기합니다.
func (h *hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
}
