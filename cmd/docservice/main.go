package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/config"
	"github.com/docforge/docforge/backend/go-services/internal/database"
	dochandler "github.com/docforge/docforge/backend/go-services/internal/document/handler"
	docrepo "github.com/docforge/docforge/backend/go-services/internal/document/repository"
	docservice "github.com/docforge/docforge/backend/go-services/internal/document/service"
	kbhandler "github.com/docforge/docforge/backend/go-services/internal/knowledge/handler"
	kbrepo "github.com/docforge/docforge/backend/go-services/internal/knowledge/repository"
	kbservice "github.com/docforge/docforge/backend/go-services/internal/knowledge/service"
	"github.com/docforge/docforge/backend/go-services/internal/users"
	"github.com/docforge/docforge/backend/go-services/pkg/logger"
	"github.com/docforge/docforge/backend/go-services/pkg/metrics"
	"github.com/docforge/docforge/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: backend=%s quota=%d users=%v", cfg.Store.Backend, cfg.Store.QuotaBytes, cfg.Users != "")

	registry := users.ParseList(cfg.Users)
	if len(registry.All()) == 0 {
		logger.Warnf("USERS is empty; every request will be rejected by the identity check")
	}

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	store := buildStore(cfg, redisClient)

	docSvc := docservice.NewService(docrepo.New(store))
	kbSvc := kbservice.NewService(kbrepo.New(store))

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"backend": cfg.Store.Backend,
			"uptime":  time.Since(startTime).String(),
		})
	})

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/", middleware.IdentityMiddleware(registry))
	dochandler.RegisterDocumentRoutes(api, docSvc)
	kbhandler.RegisterKnowledgeRoutes(api, kbSvc)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("docforge document service listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}

// buildStore selects the blob store backend from configuration, falling
// back to memory when a backend's dependencies are unavailable.
func buildStore(cfg *config.Config, redisClient *redis.Client) blobstore.Store {
	switch cfg.Store.Backend {
	case "redis":
		if redisClient != nil {
			return blobstore.NewRedisStore(redisClient, "docforge:blob:", cfg.Store.QuotaBytes)
		}
		logger.Warnf("redis backend requested but Redis is unavailable — using memory store")
	case "mongo":
		if cfg.MongoDB.URI != "" {
			client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
				return blobstore.NewMongoStore(col)
			}
			logger.Warnf("cannot connect to MongoDB (%v) — using memory store", err)
		} else {
			logger.Warnf("mongo backend requested but MONGODB_URI is empty — using memory store")
		}
	case "minio":
		s, err := blobstore.NewObjectStore(&blobstore.ObjectStoreConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err == nil {
			return s
		}
		logger.Warnf("cannot initialize MinIO store (%v) — using memory store", err)
	}
	return blobstore.NewMemoryStore(cfg.Store.QuotaBytes)
}
