package log

// NewProductionOptions 운영 환경 설정을 반환합니다.
//
// 컨테이너 환경을 기본으로 하므로 콘솔(JSON) 출력이 켜져 있고,
// dir이 주어지면 로테이션되는 로그 파일에도 함께 기록합니다.
func NewProductionOptions(appName, dir string) Options {
	return Options{
		Name:  appName,
		Dir:   dir,
		Level: InfoLevel,

		MaxAge:     30,
		MaxSizeMB:  100,
		MaxBackups: 20,

		EnableCriticalLog: dir != "",
		EnableVerboseLog:  false,
		EnableConsoleLog:  true,

		JSONFormat:   true,
		ReportCaller: false,
	}
}

// NewDevelopmentOptions 개발 환경 설정을 반환합니다.
func NewDevelopmentOptions(appName, dir string) Options {
	return Options{
		Name:  appName,
		Dir:   dir,
		Level: TraceLevel,

		MaxAge:     1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableCriticalLog: false,
		EnableVerboseLog:  dir != "",
		EnableConsoleLog:  true,

		JSONFormat:       false,
		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser",
	}
}
