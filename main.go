package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"query-hub/apperrors"
	"query-hub/cache"
	"query-hub/cloud"
	"query-hub/controllers"
	"query-hub/database"
	"query-hub/events"
	"query-hub/logger"
	"query-hub/middleware"
	"query-hub/repository"
	"query-hub/routes"
	"query-hub/services"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	// --- Logger (optionally tee'd to CloudWatch Logs) ---
	var cwWriter io.Writer
	if cfg.CloudWatchEnabled {
		cw, err := cloud.NewCloudWatchLogsClient(context.Background(), controllers.ServiceName)
		if err != nil {
			log.Printf("CloudWatch logs disabled: %v", err)
		} else {
			cwWriter = cw
		}
	}
	zapLogger, err := logger.New(cfg.Env, cwWriter)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = zapLogger.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Storage ---
	var mongoDB *database.MongoDB
	newRepo := func(name string) repository.DocumentRepository {
		return repository.NewMemoryRepository(name)
	}
	if cfg.DBDriver == driverMongo {
		mongoDB, err = database.Connect(context.Background(), cfg.ConnectionURI(), cfg.DBName, zapLogger)
		if err != nil {
			zapLogger.Fatal("MongoDB connection failed", zap.Error(err))
		}
		newRepo = func(name string) repository.DocumentRepository {
			return repository.NewMongoRepository(mongoDB.Collection(name))
		}
	} else {
		zapLogger.Warn("Using in-memory storage; data is lost on restart")
	}

	// --- List cache (optional) ---
	var redisClient *redis.Client
	var listCache services.ListCache
	switch cfg.CacheDriver {
	case cacheRedis:
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("Redis unavailable, list cache disabled (non-fatal)", zap.Error(err))
		} else {
			listCache = cache.NewListCache(redisClient, cfg.CacheTTL, zapLogger)
		}
	case cacheLocal:
		listCache = cache.NewLocalListCache(cfg.CacheTTL)
	}
	if listCache != nil {
		zapLogger.Info("List cache enabled", zap.String("driver", cfg.CacheDriver), zap.Duration("ttl", cfg.CacheTTL))
	}

	// --- Change events (optional) ---
	var publisher services.EventPublisher
	if cfg.EventsTopicARN != "" {
		awsCfg, err := cloud.LoadAWSConfig(context.Background())
		if err != nil {
			zapLogger.Warn("Failed to load AWS config, change events disabled (non-fatal)", zap.Error(err))
		} else {
			publisher = events.NewPublisher(sns.NewFromConfig(awsCfg), cfg.EventsTopicARN, zapLogger)
		}
	} else {
		zapLogger.Warn("EVENTS_SNS_TOPIC_ARN not set, change events disabled")
	}

	// --- CloudWatch metrics (non-fatal) ---
	metricsClient, err := cloud.NewMetricsClient(context.Background())
	if err != nil {
		zapLogger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}

	// --- Dependency injection ---
	newService := func(name string) services.DocumentService {
		return services.NewDocumentService(name, newRepo(name), listCache, publisher, zapLogger)
	}
	ctrls := routes.Controllers{
		MyQueries:       controllers.NewFilterableDocumentController(newService(database.CollectionMyQueries)),
		BlogPosts:       controllers.NewDocumentController(newService(database.CollectionBlogPosts)),
		Recommendations: controllers.NewDocumentController(newService(database.CollectionRecommendations)),
	}

	// --- HTTP router ---
	prom := middleware.NewPrometheusMetrics("queryhub")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(prom.Middleware())
	r.Use(middleware.MetricsMiddleware(metricsClient, controllers.ServiceName))
	r.Use(middleware.RequestTimeout(30 * time.Second))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, ctrls)
	r.GET("/metrics", prom.Handler())

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		zapLogger.Info("Query Hub started", zap.String("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Initiating graceful shutdown...")
	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}

	if mongoDB != nil {
		if err := mongoDB.Close(); err != nil {
			zapLogger.Error("MongoDB close error", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zapLogger.Error("Redis close error", zap.Error(err))
		}
	}

	zapLogger.Info("Query Hub stopped gracefully")
}
