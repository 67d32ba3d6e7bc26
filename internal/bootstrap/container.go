package bootstrap

import (
	"context"
	"fmt"
	"log"

	"arrow-be/internal/config"
	"arrow-be/internal/controller"
	"arrow-be/internal/handler"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/pkg/mailer"
	"arrow-be/internal/repository/memory"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/internal/service"
	"arrow-be/internal/session"
	"arrow-be/internal/websocket"
	"arrow-be/pkg/database"
	"arrow-be/pkg/events"
	"arrow-be/pkg/livequery"
	pktNats "arrow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	UserController         controller.IUserController
	PitchController        controller.IPitchController
	ConversationController controller.IConversationController
	DemoController         controller.IDemoController // nil outside demo mode

	// WebSockets
	PageViewHandler *handler.PageViewHandler
	WebSocketHub    *websocket.Hub

	// Background Services (Exposed for main.go to run)
	NotificationService *service.NotificationService
	Bridge              *livequery.RedisBridge // nil without Redis

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	rtLogger := logger.NewIsolatedLogger(cfg.Realtime.LogFilePath)
	c := &Container{}

	// 2. Redis (optional)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// 3. Change feed
	localFeed := livequery.NewGoChannelFeed(watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { localFeed.Close() })
	var feed livequery.Feed = localFeed
	if rdb != nil {
		c.Bridge = livequery.NewRedisBridge(localFeed, rdb, cfg.Realtime.FeedChannel, func(err error) {
			rtLogger.Warn("RedisBridge", "Relay failed", map[string]interface{}{"error": err.Error()})
		})
		feed = c.Bridge
	}

	// 4. Store
	var (
		uowFactory unitofwork.RepositoryFactory
		demoStore  *memory.Store
	)
	if cfg.IsDemo() {
		demoStore = memory.NewStore(memory.NewKV(), feed)
		if err := demoStore.SeedIfEmpty(context.Background()); err != nil {
			return nil, fmt.Errorf("seed demo store: %w", err)
		}
		uowFactory = demoStore
		log.Printf("[INFO] Running in demo mode (in-memory store)")
	} else {
		plugin := livequery.NewPlugin(feed, func(key string, err error) {
			rtLogger.Warn("LiveQuery", "Change key not published", map[string]interface{}{"key": key, "error": err.Error()})
		})
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, plugin)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	// 5. Event Bus
	var (
		publisher  events.Publisher
		subscriber events.Subscriber
	)
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger.Zap())
		if err != nil {
			return nil, err
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger.Zap())
		if err != nil {
			natsPub.Close()
			return nil, err
		}
		c.closers = append(c.closers, natsPub.Close, natsSub.Close)
		publisher, subscriber = natsPub, natsSub
	} else {
		bus := events.NewChannelBus(sysLogger.Zap())
		c.closers = append(c.closers, func() { bus.Close() })
		publisher, subscriber = bus, bus
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	// 6. Services
	issuer := session.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	c.WebSocketHub = websocket.NewHub(rdb, cfg.Realtime.SessionChannel, rtLogger)

	authService := service.NewAuthService(uowFactory, issuer, emailService, c.WebSocketHub, cfg.Auth.ResetTokenTTL, sysLogger)
	userService := service.NewUserService(uowFactory)
	pitchService := service.NewPitchService(uowFactory, memory.NewPitchSnapshotRepository(), publisher, sysLogger)
	interestService := service.NewInterestService(uowFactory, publisher, sysLogger)
	chatService := service.NewChatService(uowFactory, publisher, sysLogger)
	c.NotificationService = service.NewNotificationService(subscriber, emailService, sysLogger)

	// 7. Controllers
	c.AuthController = controller.NewAuthController(authService, issuer)
	c.UserController = controller.NewUserController(userService, issuer)
	c.PitchController = controller.NewPitchController(pitchService, interestService, issuer)
	c.ConversationController = controller.NewConversationController(chatService, issuer)
	if demoStore != nil {
		c.DemoController = controller.NewDemoController(service.NewDemoService(demoStore))
	}

	c.PageViewHandler = handler.NewPageViewHandler(authService, websocket.Deps{
		Feed:     feed,
		Auth:     authService,
		Pitches:  pitchService,
		Interest: interestService,
		Chat:     chatService,
	}, c.WebSocketHub, rtLogger)

	c.closers = append(c.closers, func() {
		sysLogger.Sync()
		rtLogger.Sync()
	})
	return c, nil
}

// Start runs the background workers until ctx is done.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	if c.Bridge != nil {
		go c.Bridge.Run(ctx)
	}
	return c.NotificationService.Start(ctx)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
