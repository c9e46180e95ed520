package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/st4cksup/server/internal/module/activity"
	"github.com/st4cksup/server/internal/module/auth"
	"github.com/st4cksup/server/internal/module/network"
	"github.com/st4cksup/server/internal/module/startup"
	"github.com/st4cksup/server/internal/module/user"
	"github.com/st4cksup/server/internal/shared/cache"
	"github.com/st4cksup/server/internal/shared/config"
	"github.com/st4cksup/server/internal/shared/database"
	"github.com/st4cksup/server/internal/shared/logger"
	"github.com/st4cksup/server/internal/shared/middleware"
	"github.com/st4cksup/server/internal/utils/metrics"
)

// App wires the modules together and owns their shared infrastructure.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	jwtManager *auth.JWTManager

	userHandler     *user.Handler
	startupHandler  *startup.Handler
	activityHandler *activity.Handler
	networkHandler  *network.Handler
}

// New creates the application.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("st4cksup"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := app.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Redis is optional; without it the feed is served from Postgres.
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis connection failed, feed caching disabled", logger.Err(err))
		} else {
			app.redis = redisClient
		}
	}

	app.initModules()
	app.router = app.setupRouter()

	return app, nil
}

func (a *App) migrate() error {
	return a.db.AutoMigrate(
		&user.User{},
		&user.Connection{},
		&startup.Startup{},
		&startup.Member{},
		&activity.Activity{},
		&network.Request{},
	)
}

func (a *App) initModules() {
	cfg := a.config

	a.jwtManager = auth.NewJWTManager(&auth.JWTConfig{
		Secret:            cfg.Auth.JWTSecret,
		AccessTokenExpiry: cfg.Auth.AccessTokenExpiry,
		Issuer:            cfg.Auth.Issuer,
	})

	txRunner := database.NewTxRunner(a.db)

	userRepo := user.NewRepository(a.db)
	userService := user.NewService(userRepo, a.jwtManager, a.zapLogger)
	a.userHandler = user.NewHandler(userService)

	startupRepo := startup.NewRepository(a.db)
	startupService := startup.NewService(startupRepo, userRepo, txRunner, a.zapLogger)
	a.startupHandler = startup.NewHandler(startupService)

	var feedCache *activity.FeedCache
	if a.redis != nil {
		feedCache = activity.NewFeedCache(a.redis, cfg.Network.FeedCacheTTL)
	}
	activityRepo := activity.NewRepository(a.db)
	activityService := activity.NewService(activityRepo, feedCache, a.metrics, a.zapLogger)
	a.activityHandler = activity.NewHandler(activityService)

	var mailer network.Mailer = network.NopMailer{}
	if cfg.Mail.Host != "" {
		mailer = network.NewBreakerMailer(
			network.NewSMTPMailer(&cfg.Mail, a.zapLogger),
			&cfg.Network,
			a.zapLogger,
		)
	}
	networkRepo := network.NewRepository(a.db)
	networkService := network.NewService(
		networkRepo,
		userRepo,
		startupRepo,
		activityService,
		txRunner,
		mailer,
		a.metrics,
		a.zapLogger,
	)
	a.networkHandler = network.NewHandler(networkService)
}

func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(a.config.Server.CORSOrigins))
	r.Use(middleware.Metrics(a.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	a.userHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(a.jwtManager))
	a.userHandler.RegisterProtectedRoutes(protected)
	a.startupHandler.RegisterRoutes(protected)
	a.activityHandler.RegisterRoutes(protected)
	a.networkHandler.RegisterRoutes(protected)

	return r
}

// Router returns the configured gin engine.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases shared resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := cache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", logger.Err(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", logger.Err(err))
	}
	_ = a.zapLogger.Sync()
}
