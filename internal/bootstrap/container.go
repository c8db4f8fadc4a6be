package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"gymbro-be/internal/config"
	"gymbro-be/internal/controller"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/pkg/serverutils"
	"gymbro-be/internal/repository/memory"
	"gymbro-be/internal/repository/unitofwork"
	"gymbro-be/internal/service"
	internalWS "gymbro-be/internal/websocket"
	"gymbro-be/pkg/coach/intent"
	"gymbro-be/pkg/coach/prompt"
	"gymbro-be/pkg/coach/state"
	"gymbro-be/pkg/coach/summary"
	"gymbro-be/pkg/events"
	"gymbro-be/pkg/llm"
	"gymbro-be/pkg/llm/factory"
	"gymbro-be/pkg/lock"

	pktNats "gymbro-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController
	LogController     controller.ILogController
	ProfileController controller.IProfileController
	FeedController    controller.IFeedController

	JwtMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	FeedHub         *internalWS.Hub

	Logger  logger.ILogger
	closers []func()
}

// NewContainer wires every component. A nil db selects the in-memory store.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(logger.Options{
		FilePath:   cfg.App.LogFilePath,
		Production: cfg.IsProduction(),
		Level:      cfg.App.LogLevel,
	})
	llmLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "llm.log"))
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = llmLogger.Sync() }, func() { _ = sysLogger.Sync() })

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
		log.Printf("[WARN] Using in-memory storage; data is lost on restart")
		if err := seedProfiles(uowFactory, cfg.App.DemoUsers); err != nil {
			c.Close()
			return nil, err
		}
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	rdb := newRedisClient(cfg, c)
	locker := newLocker(cfg, rdb)
	hub := internalWS.NewHub(rdb, sysLogger)

	forwarder := events.Fanout{hub}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = append(forwarder, natsPub)
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	llmProvider, err := newLLMProvider(cfg, sysLogger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, forwarder, sysLogger)

	summarizer := summary.NewSummarizer()
	chatbotService := service.NewChatbotService(
		uowFactory,
		llmProvider,
		intent.NewClassifier(llmProvider, llmLogger),
		prompt.NewRegistry(summarizer),
		state.NewMachine(llmProvider, publisherService, llmLogger),
		locker,
		cfg.App.AccountLockWait,
		sysLogger,
	)
	logService := service.NewLogService(uowFactory, publisherService, summarizer, sysLogger)
	profileService := service.NewProfileService(uowFactory, sysLogger)

	// 5. Controllers
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.LogController = controller.NewLogController(logService)
	c.ProfileController = controller.NewProfileController(profileService)
	c.FeedController = controller.NewFeedController(hub, profileService)
	c.JwtMiddleware = serverutils.JwtMiddleware(cfg.Keys.JWTSecret)
	c.ConsumerService = consumerService
	c.FeedHub = hub

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func newLLMProvider(cfg *config.Config, log logger.ILogger) (llm.LLMProvider, error) {
	params := factory.Params{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		APIKey:   cfg.Keys.OpenAI,
		Timeout:  cfg.Ai.RequestTimeout,
		// The stored token is overwritten by the fresh turn's token.
		OnStaleToken: func(ctx context.Context, _ string) {
			log.WithContext(ctx).Warn("LLM", "Continuation token unknown to backend, starting a new conversation", map[string]interface{}{
				"provider": cfg.Ai.LLMProvider,
			})
		},
	}
	switch cfg.Ai.LLMProvider {
	case "ollama":
		params.BaseURL = cfg.Ai.OllamaBaseURL
	default:
		params.BaseURL = cfg.Ai.OpenAIBaseURL
	}
	return factory.NewLLMProvider(params)
}

func seedProfiles(uowFactory unitofwork.RepositoryFactory, usernames []string) error {
	ctx := context.Background()
	repo := uowFactory.NewUnitOfWork(ctx).UserProfileRepository()
	for _, username := range usernames {
		if err := repo.Create(ctx, &entity.UserProfile{Username: username, Name: username}); err != nil {
			return fmt.Errorf("seed profile %s: %w", username, err)
		}
	}
	return nil
}

// newRedisClient returns nil when Redis is unset or unreachable; callers fall
// back to in-process implementations.
func newRedisClient(cfg *config.Config, c *Container) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-process locks and feed", err)
		_ = rdb.Close()
		return nil
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rdb
}

// newLocker prefers Redis so replicas share account locks.
func newLocker(cfg *config.Config, rdb *redis.Client) lock.Locker {
	if rdb == nil {
		return lock.NewLocalLocker()
	}
	return lock.NewRedisLocker(rdb, cfg.App.AccountLockTTL)
}
