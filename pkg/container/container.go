package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"account-service/internal/config"
	accountHandler "account-service/internal/domains/account/handler"
	accountRepo "account-service/internal/domains/account/repository"
	accountService "account-service/internal/domains/account/service"
	"account-service/internal/domains/account/emitter"
	infraCache "account-service/internal/infrastructure/cache"
	"account-service/internal/infrastructure/broker"
	"account-service/internal/infrastructure/database"
	"account-service/pkg/cache"
)

// Container holds every process-scoped dependency of the application and
// is the root of the dependency graph. All resources are acquired at
// startup and released in Cleanup; nothing is reached through globals.
type Container struct {
	// Infrastructure layer - shared singletons.
	Config   *config.Config
	DB       *database.PostgresDB
	Cache    cache.Cache
	Producer broker.Publisher
	Emitter  *emitter.Emitter

	// Repository layer.
	AccountRepo accountRepo.RepositoryInterface

	// Service layer.
	AccountService accountService.ServiceInterface

	// Handler layer.
	AccountHandler *accountHandler.AccountHandler
}

// NewContainer initializes the whole dependency graph in order:
// config → infrastructure → repositories → services → handlers.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Redis failure is non-critical: the repository degrades to
		// uncached reads, it does not stop the service.
		log.Printf("Redis connection failed (non-critical): %v", err)
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: INITIALIZE BROKER + EMITTER
	// ========================================
	c.Producer = broker.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	c.Emitter = emitter.New(c.Producer, cfg.Kafka.QueueSize)
	log.Printf("Kafka producer ready (topic: %s)", cfg.Kafka.Topic)

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.AccountRepo = accountRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.AccountService = accountService.NewAccountService(c.AccountRepo, c.Emitter)
	c.AccountHandler = accountHandler.NewAccountHandler(c.AccountService)

	log.Println("DI container ready")
	return c, nil
}

// Cleanup releases resources in reverse initialization order. The emitter
// is closed first so queued events get a chance to flush before the
// producer goes away.
func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if c.Emitter != nil {
		if err := c.Emitter.Close(); err != nil {
			log.Printf("Emitter close failed: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("Redis close failed: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("Container resources released")
}
