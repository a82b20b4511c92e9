package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	setupOnce sync.Once

	// 최초 Setup 결과. 이후 호출은 재시도하지 않고 같은 결과를 돌려준다.
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로거를 초기화합니다. 프로세스 생명주기 동안 한 번만 실제로 수행됩니다.
//
// 반환된 Closer는 main에서 defer로 닫아야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setup(opts)
	})

	return globalCloser, globalSetupErr
}

func setup(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)

	// 기본 출력은 버리고 모든 기록은 hook이 담당한다.
	logrus.SetFormatter(&silentFormatter{})
	logrus.SetOutput(io.Discard)

	h := &hook{formatter: newFormatter(opts)}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	var closers []io.Closer
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("로그 디렉터리 생성 실패: %w", err)
		}

		newRotatingFile := func(suffix string) *lumberjack.Logger {
			name := opts.Name
			if suffix != "" {
				name += "." + suffix
			}
			l := &lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, fmt.Sprintf("%s.%s", name, fileExt)),
				MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
				MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
				MaxAge:     opts.MaxAge,
				LocalTime:  true,
			}
			closers = append(closers, l)
			return l
		}

		h.mainWriter = newRotatingFile("")
		if opts.EnableCriticalLog {
			h.criticalWriter = newRotatingFile("critical")
		}
		if opts.EnableVerboseLog {
			h.verboseWriter = newRotatingFile("verbose")
		}
	}

	logrus.AddHook(h)

	c := &closer{closers: closers, hook: h}

	// Fatal 로그로 프로세스가 종료되기 직전에 파일 버퍼를 비운다.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

func newFormatter(opts Options) Formatter {
	prettyfier := func(frame *runtime.Frame) (function string, file string) {
		function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
		if opts.CallerPathPrefix != "" {
			if cut, found := strings.CutPrefix(function, opts.CallerPathPrefix); found {
				function = "..." + cut
			}
		}
		return
	}

	if opts.JSONFormat {
		return &logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339Nano,
			CallerPrettyfier: prettyfier,
		}
	}

	return &logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  time.RFC3339,
		CallerPrettyfier: prettyfier,
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
