// Package version 링커 플래그로 주입된 빌드 정보와 실행 환경 정보를 제공합니다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const unknown = "unknown"

// 다음 변수들은 빌드 시점에 -ldflags "-X" 로 주입됩니다. 직접 읽지 말고 Get()을 사용합니다.
var (
	appVersion    = ""
	gitCommitHash = ""
	gitTreeState  = ""
	buildDate     = ""
)

// readBuildInfo 테스트에서 교체할 수 있도록 변수로 둡니다.
var readBuildInfo = debug.ReadBuildInfo

var (
	once    sync.Once
	current Info
)

// Info 빌드 정보
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	DirtyBuild bool   `json:"dirty_build"`
}

// Get 빌드 정보를 반환합니다. 최초 호출 시 한 번만 계산합니다.
func Get() Info {
	once.Do(func() {
		current = resolve(Info{
			Version:    strings.TrimSpace(appVersion),
			Commit:     strings.TrimSpace(gitCommitHash),
			BuildDate:  strings.TrimSpace(buildDate),
			DirtyBuild: strings.EqualFold(strings.TrimSpace(gitTreeState), "dirty"),
		})
	})
	return current
}

// resolve 비어 있는 값을 실행 파일의 VCS 메타데이터와 런타임 정보로 채웁니다.
func resolve(bi Info) Info {
	bi.GoVersion = runtime.Version()
	bi.Platform = runtime.GOOS + "/" + runtime.GOARCH

	if bin, ok := readBuildInfo(); ok {
		for _, s := range bin.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = s.Value
				}
			case "vcs.time":
				if bi.BuildDate == "" {
					bi.BuildDate = s.Value
				}
			case "vcs.modified":
				bi.DirtyBuild = bi.DirtyBuild || s.Value == "true"
			}
		}
		if bi.Version == "" && bin.Main.Version != "" && bin.Main.Version != "(devel)" {
			bi.Version = bin.Main.Version
		}
	}

	if bi.Version == "" {
		bi.Version = unknown
	}
	if bi.Commit == "" {
		bi.Commit = unknown
	}
	if bi.BuildDate == "" {
		bi.BuildDate = unknown
	}

	return bi
}

// ShortCommit 커밋 해시 앞 7자리
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 && i.Commit != unknown {
		return i.Commit[:7]
	}
	return i.Commit
}

// Fields 구조적 로깅용 필드
func (i Info) Fields() map[string]any {
	return map[string]any{
		"version":     i.Version,
		"commit":      i.ShortCommit(),
		"build_date":  i.BuildDate,
		"go_version":  i.GoVersion,
		"platform":    i.Platform,
		"dirty_build": i.DirtyBuild,
	}
}

// UserAgent 외부 서비스 호출에 사용할 User-Agent 값 (예: price-watcher/v1.2.0)
func (i Info) UserAgent(appName string) string {
	if i.Version == unknown {
		return appName
	}
	return appName + "/" + i.Version
}

func (i Info) String() string {
	v := i.Version
	if i.DirtyBuild {
		v += "+dirty"
	}
	return fmt.Sprintf("%s (commit: %s, date: %s, %s, %s)", v, i.ShortCommit(), i.BuildDate, i.GoVersion, i.Platform)
}
