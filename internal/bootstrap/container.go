package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-procurement-be/internal/agent"
	"ai-procurement-be/internal/config"
	"ai-procurement-be/internal/controller"
	"ai-procurement-be/internal/handler"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/internal/pkg/mailer"
	"ai-procurement-be/internal/repository/memory"
	"ai-procurement-be/internal/repository/unitofwork"
	"ai-procurement-be/internal/service"
	"ai-procurement-be/internal/websocket"
	"ai-procurement-be/pkg/currency"
	"ai-procurement-be/pkg/forecast"
	pktNats "ai-procurement-be/pkg/nats"
	"ai-procurement-be/pkg/resilience"
	"ai-procurement-be/pkg/scraper"
	"ai-procurement-be/pkg/tax"
	"ai-procurement-be/pkg/verify"
)

type Container struct {
	// Controllers
	ProcurementController controller.IProcurementController
	MonitorController     controller.IMonitorController
	FeedHandler           *handler.FeedHandler

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	FeedService     *service.FeedService

	// WebSockets
	WebSocketHub *websocket.Hub
}

// newGuard builds the shared limiter/breaker/retry stack for one
// dependency class. The returned pieces are process-wide singletons:
// every workflow run goes through the same instances so failures
// accumulate across unrelated requests.
func newGuard(name string, cfg config.DependencyClassConfig, monitor *resilience.SystemMonitor) (*agent.ToolGuard, *resilience.CircuitBreaker, service.NamedLimiter) {
	limiter := resilience.NewRateLimiter(cfg.MaxCalls, cfg.Window)
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: cfg.FailureThreshold,
		RecoveryTimeout:  cfg.RecoveryTimeout,
	})
	retry := resilience.NewRetryPolicy(cfg.RetryAttempts, cfg.RetryBaseDelay, cfg.RetryMaxDelay)
	retry.OnRetry = func(attempt int, err error) {
		monitor.RecordRetry(name)
	}
	guard := &agent.ToolGuard{Limiter: limiter, Breaker: breaker, Retry: retry}
	named := service.NamedLimiter{Name: name, MaxCalls: cfg.MaxCalls, Limiter: limiter}
	return guard, breaker, named
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	wsLogger := logger.NewIsolatedLogger("logs/feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Tool boundaries
	scrapeCache := scraper.ResponseCache(scraper.NewMemoryCache(cfg.Scraper.CacheTTL))
	if rdb != nil {
		scrapeCache = scraper.NewTieredCache(
			scraper.NewMemoryCache(cfg.Scraper.CacheTTL),
			scraper.NewRedisCache(rdb, cfg.Scraper.CacheTTL),
		)
	}
	aggregator := scraper.NewAggregator(scrapeCache,
		scraper.NewJumiaClient("", 20*time.Second),
		scraper.NewKilimallClient("", 20*time.Second),
	)

	verifier := verify.NewClient(cfg.Keys.BusinessRegistry, cfg.Keys.BusinessRegistryURL, 15*time.Second)

	// 4. Resilience singletons + the three stage agents
	monitor := resilience.NewSystemMonitor()
	marketGuard, marketBreaker, marketLimiter := newGuard("market_search", cfg.Resilience.Market, monitor)
	complianceGuard, complianceBreaker, complianceLimiter := newGuard("seller_verification", cfg.Resilience.Compliance, monitor)

	workflowBreaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "workflow",
		FailureThreshold: cfg.Resilience.WorkflowFailures,
		RecoveryTimeout:  cfg.Resilience.WorkflowRecovery,
	})

	verificationCache := memory.NewVerificationCache(cfg.Resilience.VerificationTTL)

	supervisor := agent.NewSupervisor(
		[]agent.Stage{
			agent.NewMarketAgent(aggregator, marketGuard, monitor, sysLogger, cfg.Scraper.Platforms, cfg.Scraper.Preference),
			agent.NewPriceAgent(forecast.NewHeuristic(), nil, monitor, sysLogger),
			agent.NewComplianceAgent(verifier, complianceGuard, verificationCache, monitor, sysLogger),
		},
		workflowBreaker,
		monitor,
		sysLogger,
		cfg.Resilience.WorkflowTimeout,
	)

	// 5. Services
	builder := service.NewRecommendationBuilder(
		tax.NewCalculator(tax.DefaultConfig()),
		currency.NewConverter(nil),
	)

	procurementService := service.NewProcurementService(supervisor, builder, uowFactory, pubSub, sysLogger)
	historyService := service.NewHistoryService(uowFactory)
	monitorService := service.NewMonitorService(
		monitor,
		[]*resilience.CircuitBreaker{marketBreaker, complianceBreaker, workflowBreaker},
		[]service.NamedLimiter{marketLimiter, complianceLimiter},
	)

	consumerService := service.NewConsumerService(pubSub, uowFactory, natsPub)

	feedService := service.NewFeedService(natsSub, wsHub, emailService, cfg.SMTP.ApprovalEmail, uowFactory, wsLogger)
	if natsSub != nil {
		go feedService.Start()
	}

	// 6. Controllers
	return &Container{
		ProcurementController: controller.NewProcurementController(procurementService, historyService),
		MonitorController:     controller.NewMonitorController(monitorService),
		FeedHandler:           handler.NewFeedHandler(natsPub, wsHub, wsLogger),
		ConsumerService:       consumerService,
		FeedService:           feedService,
		WebSocketHub:          wsHub,
	}
}
