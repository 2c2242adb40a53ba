// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/resultvault/pkg/api"
	appcache "github.com/yeisme/resultvault/pkg/cache"
	"github.com/yeisme/resultvault/pkg/configs"
	"github.com/yeisme/resultvault/pkg/internal/jobs"
	"github.com/yeisme/resultvault/pkg/internal/router"
	"github.com/yeisme/resultvault/pkg/internal/storage"
	"github.com/yeisme/resultvault/pkg/log"
	"github.com/yeisme/resultvault/pkg/metrics"
	"github.com/yeisme/resultvault/pkg/middleware"
	"github.com/yeisme/resultvault/pkg/scheduler"
	"github.com/yeisme/resultvault/pkg/tracing"
)

// App 聚合 HTTP 引擎与常驻资源，由 NewApp 一次性装配.
type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()

	// 中间件必须先于路由注册，否则对已注册路由不生效
	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.StorageMiddleware(manager),
	)

	if config.RateLimit.Enabled {
		engine.Use(middleware.RateLimitMiddleware(config.RateLimit))
	}

	if config.CircuitBreaker.Enabled {
		engine.Use(middleware.CircuitBreakerMiddleware(config.CircuitBreaker))
	}

	// KV 可用时对读多写少的 GET 开响应缓存；
	// 响应按用户区分，X-User 必须参与缓存键
	if kvClient := manager.GetKVClient(); kvClient != nil {
		cacheCfg := middleware.DefaultCacheConfig(appcache.NewCache(kvClient))
		cacheCfg.VaryHeaders = []string{"X-User"}
		cacheCfg.Skipper = func(c *gin.Context) bool {
			p := c.Request.URL.Path

			return !strings.HasPrefix(p, "/api/v1/stats/") && p != "/api/v1/retention/policy"
		}
		engine.Use(middleware.CacheMiddleware(cacheCfg))
	}

	// 调度器承载夜间保留清扫，注册失败是装配错误
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	engine.Use(middleware.SchedulerMiddleware(sched))
	sched.Start()

	// 路由注册
	api.RegisterGroup(engine)
	router.RegisterSwaggerRoute(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

// Run 启动 HTTP 服务并阻塞到收到退出信号，随后优雅停机.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Logger().Info().Str("addr", srv.Addr).Msg("HTTP server started")

	ctx, stop := signal.NotifyContext(contextPkg.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Logger().Info().Msg("shutdown signal received")

	shutdownCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), a.config.Server.GetTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.close(shutdownCtx)

	return nil
}

// close 释放常驻资源，失败只记日志不阻断退出.
func (a *App) close(ctx contextPkg.Context) {
	l := log.Logger()

	if a.sched != nil {
		if err := a.sched.Shutdown(); err != nil {
			l.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}

	if a.manager != nil && a.manager.GetMQClient() != nil {
		if err := a.manager.GetMQClient().Close(); err != nil {
			l.Warn().Err(err).Msg("mq close failed")
		}
	}

	if a.manager != nil && a.manager.GetKVClient() != nil {
		if err := a.manager.GetKVClient().Close(); err != nil {
			l.Warn().Err(err).Msg("kv close failed")
		}
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		l.Warn().Err(err).Msg("tracer shutdown failed")
	}
}
