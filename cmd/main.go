package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/quickfit/quickfit-server/config"
	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/internal/container"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
	fileinfra "github.com/quickfit/quickfit-server/internal/infrastructure/file"
	pginfra "github.com/quickfit/quickfit-server/internal/infrastructure/postgres"
	"github.com/quickfit/quickfit-server/internal/interface/middleware"
	"github.com/quickfit/quickfit-server/internal/router"
	"github.com/quickfit/quickfit-server/pkg/events"
	"github.com/quickfit/quickfit-server/pkg/helpers"
	"github.com/quickfit/quickfit-server/pkg/tryon"
	"github.com/quickfit/quickfit-server/pkg/validation"
	"github.com/quickfit/quickfit-server/pkg/wechat"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Storage backend: local JSON files by default, postgres when configured.
	var (
		wardrobeRepo   repository.WardrobeRepository
		collectionRepo repository.CollectionRepository
		profileRepo    repository.ProfileRepository
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(migrate.ErrNoChange, err) {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		wardrobeRepo = pginfra.NewWardrobeRepository(pool)
		collectionRepo = pginfra.NewCollectionRepository(pool)
		profileRepo = pginfra.NewProfileRepository(pool)
	default:
		store, err := fileinfra.NewStore(cfg.DataDir, fileinfra.Options{Strict: cfg.StorageStrictLoad, Logger: logger})
		if err != nil {
			log.Fatalf("failed to open data dir %s: %v", cfg.DataDir, err)
		}
		wardrobeRepo = store.Wardrobe()
		collectionRepo = store.Collections()
		profileRepo = store.Profile()
	}

	// Redis backs sessions and rate limiting.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Optional: Cloud Storage export of collection results.
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	// Optional: Elasticsearch wardrobe search.
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		esClient, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		container.SetES(esClient)
	}

	// Optional: RabbitMQ activity events.
	if cfg.EventsEnabled {
		pub, err := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			log.Fatalf("failed to init events publisher: %v", err)
		}
		defer pub.Close()
		container.SetPublisher(pub)
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	storeSvc, err := application.NewStoreService(wardrobeRepo, collectionRepo, profileRepo, logger)
	if err != nil {
		log.Fatalf("failed to load store: %v", err)
	}
	storeSvc.ES = container.GetES()
	storeSvc.ESIndex = cfg.ESWardrobeIndex
	storeSvc.Publisher = container.GetPublisher()

	var generator tryon.Generator
	if cfg.TryOnSimulate {
		generator = tryon.NewSimulator(cfg.TryOnSimDelay)
		logger.Warn("try-on simulator enabled; no remote generation calls will be made")
	} else {
		generator = tryon.NewClient(cfg.TryOnBaseURL, cfg.TryOnTimeout)
	}

	tryOnSvc := application.NewTryOnService(storeSvc, generator, logger, cfg.UploadMaxDim, cfg.UploadByteLimit)
	authSvc := application.NewAuthService(wechat.NewClient(cfg.WeChatBaseURL), rdb, jwtManager, logger)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetStore(storeSvc)
	container.SetTryOn(tryOnSvc)
	container.SetAuth(authSvc)
	container.SetGenerator(generator)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(http.ErrServerClosed, err) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(migrate.ErrNoChange, err) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
