package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/config"
	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/pkg/events"
	"github.com/quickfit/quickfit-server/pkg/helpers"
	"github.com/quickfit/quickfit-server/pkg/tryon"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager

	storeService *application.StoreService
	tryOnService *application.TryOnService
	authService  *application.AuthService

	generator tryon.Generator
	publisher *events.Publisher
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *storage.Client)      { gcsClient = s }
func GetGCS() *storage.Client       { return gcsClient }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetStore(s *application.StoreService) { storeService = s }
func GetStore() *application.StoreService  { return storeService }
func SetTryOn(s *application.TryOnService) { tryOnService = s }
func GetTryOn() *application.TryOnService  { return tryOnService }
func SetAuth(s *application.AuthService)   { authService = s }
func GetAuth() *application.AuthService    { return authService }

func SetGenerator(g tryon.Generator)   { generator = g }
func GetGenerator() tryon.Generator    { return generator }
func SetPublisher(p *events.Publisher) { publisher = p }
func GetPublisher() *events.Publisher  { return publisher }
