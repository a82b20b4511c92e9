package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/price-watcher/internal/config"
	"github.com/darkkaiser/price-watcher/internal/pkg/version"
	"github.com/darkkaiser/price-watcher/internal/service"
	"github.com/darkkaiser/price-watcher/internal/service/catalog"
	"github.com/darkkaiser/price-watcher/internal/service/fetcher"
	"github.com/darkkaiser/price-watcher/internal/service/notification"
	"github.com/darkkaiser/price-watcher/internal/service/scraper"
	"github.com/darkkaiser/price-watcher/internal/service/watcher"
	applog "github.com/darkkaiser/price-watcher/pkg/log"
)

const banner = `
  ____       _            __        __    _       _
 |  _ \ _ __(_) ___ ___   \ \      / /_ _| |_ ___| |__   ___ _ __
 | |_) | '__| |/ __/ _ \   \ \ /\ / / _' | __/ __| '_ \ / _ \ '__|
 |  __/| |  | | (_|  __/    \ V  V / (_| | || (__| | | |  __/ |
 |_|   |_|  |_|\___\___|     \_/\_/ \__,_|\__\___|_| |_|\___|_|   %s
--------------------------------------------------------------------------------
`

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName, appConfig.Log.Dir)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName, appConfig.Log.Dir)
	}
	if appConfig.Log.MaxAge > 0 {
		logOpts.MaxAge = appConfig.Log.MaxAge
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 워커 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}

	os.Exit(run(appConfig, appLogCloser))
}

// run 워커를 구동하고 종료 코드를 반환합니다. os.Exit 전에 defer가 실행되도록 main과 분리합니다.
func run(appConfig *config.AppConfig, appLogCloser io.Closer) int {
	defer appLogCloser.Close()

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	logger := applog.WithComponent("main")

	logger.WithFields(applog.Fields(buildInfo.Fields())).
		WithField("env", map[bool]string{true: "development", false: "production"}[appConfig.Debug]).
		Info("워커 초기화 시작")
	logger.WithFields(applog.Fields(appConfig.Summary())).Info("환경설정 로드 완료")

	for _, w := range appConfig.VerifyRecommendations() {
		logger.Warn(w)
	}

	watcherService, err := newWatcherService(appConfig, buildInfo)
	if err != nil {
		logger.WithError(err).Error("서비스 구성 실패")
		return 1
	}

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	services := []service.Service{watcherService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			logger.WithError(err).Error("서비스 시작 실패")

			cancel()
			serviceStopWG.Wait()

			return 1
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(termC)

	logger.Info("워커 가동 완료")

	select {
	case sig := <-termC:
		logger.WithField("signal", sig.String()).Info("종료 신호를 받았습니다")
	case <-watcherService.Done():
		logger.Info("설정된 주기를 모두 실행하여 종료합니다")
	}

	cancel()
	serviceStopWG.Wait()

	logger.Info("워커 종료 완료")

	return 0
}

// newWatcherService 협력 서비스 클라이언트를 구성하고 감시 서비스를 생성합니다.
//
// 모든 클라이언트는 하나의 HTTPFetcher(연결 풀)를 공유하며,
// 스크래퍼 호출에만 처리율 제한을 둔 별도의 체인을 사용합니다.
func newWatcherService(appConfig *config.AppConfig, buildInfo version.Info) (*watcher.Service, error) {
	userAgent := appConfig.HTTP.UserAgent
	if userAgent == "" || userAgent == config.AppName {
		userAgent = buildInfo.UserAgent(config.AppName)
	}

	base := fetcher.NewHTTPFetcher(
		fetcher.WithTimeout(appConfig.HTTP.TimeoutDuration()),
		fetcher.WithUserAgent(userAgent),
	)

	chainConfig := fetcher.Config{
		MaxRetries:    appConfig.HTTP.MaxRetries,
		MinRetryDelay: appConfig.HTTP.RetryDelayDuration(),
		MaxBytes:      appConfig.HTTP.MaxResponseBytes,
	}
	general := fetcher.NewChain(base, chainConfig)

	scraperConfig := chainConfig
	scraperConfig.RateLimit = appConfig.HTTP.ScraperRateLimit
	scraperChain := fetcher.NewChain(base, scraperConfig)

	catalogClient := catalog.New(general, appConfig.Services.DataAPIURL)
	resolver := scraper.New(scraperChain, appConfig.Services.ScraperServiceURL)
	dispatcher := notification.NewDispatcher(general, appConfig.Services.NotificationServiceURL, appConfig.Services.NotificationPath, catalogClient)

	reporter, err := notification.NewOperatorReporter(appConfig.Operator, appConfig.Debug)
	if err != nil {
		return nil, err
	}

	return watcher.NewService(appConfig.Sweep, catalogClient, resolver, dispatcher, watcher.WithOperatorReporter(reporter))
}
