package server

import (
	"log/slog"

	"social-service/configs"
	"social-service/internal/auth"
	"social-service/internal/chat"
	"social-service/internal/database"
	"social-service/internal/events"
	"social-service/internal/session"
	"social-service/internal/social"
	"social-service/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// App wires every subsystem together: the session store shared by the HTTP
// layer and the chat gateway, the CRUD surface, and the gateway itself.
type App struct {
	router    *gin.Engine
	cfg       *configs.Config
	redis     *redis.Client
	gateway   *chat.Gateway
	publisher *events.Publisher
}

func NewApp() (*App, error) {
	cfg := configs.Load()

	db, err := database.NewPostgresConnection(
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisConnection(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(redisClient, cfg.SessionSecret, cfg.SessionTTL)

	publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, slog.Default())
	if err != nil {
		return nil, err
	}

	avatars, err := storage.NewAvatarStore(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}

	gateway := chat.NewGateway(sessions, chat.Options{
		HandshakeTimeout: cfg.HandshakeTimeout,
		WriteWait:        cfg.WriteWait,
		PongWait:         cfg.PongWait,
		SendBufferSize:   cfg.SendBufferSize,
		SweepInterval:    cfg.SessionSweep,
	}, slog.Default().With("component", "chat"))

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, sessions, publisher)
	authHandler := auth.NewHandler(authService, avatars, gateway, int(cfg.SessionTTL.Seconds()))

	socialRepo := social.NewRepository(db)
	socialService := social.NewService(socialRepo, publisher)
	socialHandler := social.NewHandler(socialService)

	router := gin.Default()
	SetupRoutes(router, authHandler, socialHandler, sessions, gateway)

	return &App{
		router:    router,
		cfg:       cfg,
		redis:     redisClient,
		gateway:   gateway,
		publisher: publisher,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Gateway() *chat.Gateway {
	return a.gateway
}

func (a *App) Config() *configs.Config {
	return a.cfg
}

func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		slog.Error("event publisher close failed", "error", err)
	}
	if err := a.redis.Close(); err != nil {
		slog.Error("redis close failed", "error", err)
	}
}
