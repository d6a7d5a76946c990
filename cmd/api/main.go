package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"typescore/internal/catalog"
	"typescore/internal/config"
	"typescore/internal/db"
	apihttp "typescore/internal/http"
	"typescore/internal/metrics"
	"typescore/internal/repository"
	"typescore/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		logger.Fatal("load catalog", zap.String("source", cfg.CatalogSource), zap.Error(err))
	}
	logger.Info("catalog loaded", zap.String("source", cfg.CatalogSource), zap.Int("questions", cat.Len()))

	var samples service.SampleStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory sample store", zap.Error(err))
		} else {
			samples = service.NewRedisSampleStore(redisClient)
		}
		cancel()
	}
	if samples == nil {
		samples = service.NewMemorySampleStore()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	testSvc := service.NewTestService(cat, samples, recorder, logger, service.TestOptions{
		QuestionsPerDichotomy: cfg.QuestionsPerDichotomy,
		SampleTTL:             cfg.SampleTTL(),
		Seed:                  cfg.SampleSeed,
	})
	testHandler := apihttp.NewTestHandler(logger, testSvc)
	router := apihttp.NewRouter(logger, testHandler, reg)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// loadCatalog lee el catalogo una sola vez; despues se trata como inmutable.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogSource != config.CatalogSourcePostgres {
		return catalog.LoadFile(cfg.CatalogPath)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	questions, err := repository.NewPgQuestionRepository(pool).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(questions)
}
