package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trend-radar/internal/bot"
	"trend-radar/internal/cache"
	"trend-radar/internal/config"
	"trend-radar/internal/db"
	"trend-radar/internal/handler"
	"trend-radar/internal/job"
	"trend-radar/internal/provider"
	"trend-radar/internal/service"
	"trend-radar/internal/trend"
	"trend-radar/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "trend-radar/docs"
)

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initPostgresFunc      = db.InitPostgres
	initRedisFunc         = cache.InitRedis
	initTracerFunc        = tracing.InitTracer
	newRedditProviderFunc = func(tracer trace.Tracer) trend.SourceReader {
		return provider.NewRedditProvider(tracer)
	}
	startTelegramBotFunc   = bot.StartTelegramBot
	startJobFunc           = func(j *job.TrendJob, ctx context.Context) { go j.Start(ctx) }
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Trend Radar API
// @version         1.0
// @description     Social trend monitoring with spike detection.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Repository, migrations and the read-side query service need Postgres.
	var repo *trend.Repository
	var queryService *service.QueryService
	if db.Pool != nil {
		repo = trend.NewRepository(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		var redisClient service.RedisClient
		if cache.Client != nil {
			redisClient = cache.Client
		}
		queryService = service.NewQueryService(tracer, repo, redisClient, cfg.APIQueryLimit)
	}

	// Telegram bot: command surface plus alert announcements.
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	var trendReader bot.TrendReader
	if queryService != nil {
		trendReader = queryService
	}
	tgBot := startTelegramBotFunc(trendReader)

	// Trend monitoring cycle: reddit fetch -> tokenize -> classify -> persist.
	var trendSvc *trend.Service
	if repo != nil {
		classifier := trend.NewClassifier(trend.ClassifierConfig{
			MinCount:    cfg.TrendMinCount,
			NewMinCount: cfg.TrendNewMinCount,
			SpikePct:    cfg.TrendSpikePct,
			ClassifyTop: cfg.TrendClassifyTop,
			StateSize:   cfg.TrendStateSize,
		})
		var notifier trend.Notifier
		if tgBot != nil {
			notifier = tgBot
		}
		trendSvc = trend.NewService(
			tracer,
			newRedditProviderFunc(tracer),
			repo,
			classifier,
			provider.NewPacer(time.Duration(cfg.FetchDelaySecs)*time.Second),
			notifier,
			trend.Config{Subreddits: cfg.Subreddits, PostLimit: cfg.RedditPostLimit},
		)
	} else {
		log.Println("Trend monitoring disabled: no database")
	}

	monitorService := service.NewTrendMonitorService(tracer, trendSvc)
	trendJob := job.NewTrendJob(
		tracer,
		monitorService,
		time.Duration(cfg.TrendPollSecs)*time.Second,
		time.Duration(cfg.TrendBackoffSecs)*time.Second,
	)
	startJobFunc(trendJob, ctx)

	// Create handlers and routes
	h := newHandlerFunc(tracer, queryService, monitorService, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("trend-radar"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
