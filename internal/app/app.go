package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/config"
	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/middleware"
	"github.com/simp-lee/quizhub/internal/module/auth"
	"github.com/simp-lee/quizhub/internal/module/follower"
	"github.com/simp-lee/quizhub/internal/module/quiz"
	"github.com/simp-lee/quizhub/internal/module/user"
	"github.com/simp-lee/quizhub/internal/platform/cache"
	"github.com/simp-lee/quizhub/internal/platform/events"
	"github.com/simp-lee/quizhub/internal/platform/storage"
)

const defaultShutdownTimeout = 5 * time.Second

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine  *gin.Engine
	db      *gorm.DB
	logger  *logger.Logger
	cfg     *config.Config
	closers []closer
}

// closer releases an infrastructure client on shutdown.
type closer struct {
	name  string
	close func() error
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// models lists every table managed by AutoMigrate.
var models = []any{
	&domain.User{},
	&domain.Follow{},
	&domain.Category{},
	&domain.Level{},
	&domain.Quiz{},
	&domain.Question{},
	&domain.Answer{},
	&domain.Like{},
	&domain.Favourite{},
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, the optional redis cache, event
// publisher and image store, then the modules, middleware and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg}
	success := false
	defer func() {
		if !success {
			a.release()
		}
	}()

	// 1. Logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	a.logger = log

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 exposes profiling and permissive CORS")
	}

	// 2. Database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	a.db = db

	if cfg.Server.Mode == gin.DebugMode || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		if err := quiz.SeedReferenceData(context.Background(), db); err != nil {
			return nil, fmt.Errorf("seed reference data: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 3. Optional infrastructure.
	infra, err := a.setupInfrastructure(context.Background())
	if err != nil {
		return nil, err
	}

	// 4. Manual dependency injection: repository → service → handler.
	policy := domain.DefaultPolicy()
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	userRepo := user.NewUserRepository(db)

	quizSvc := quiz.NewQuizService(quiz.Deps{
		Quizzes:   quiz.NewQuizRepository(db),
		Reactions: quiz.NewReactionRepository(db),
		Users:     userRepo,
		Policy:    policy,
		Cache:     infra.cache,
		CacheTTL:  cfg.Redis.TTL(),
		Events:    infra.events,
		Images:    infra.images,
	})

	modules := []Module{
		auth.NewModule(auth.NewHandler(auth.NewService(tokens, userRepo))),
		user.NewModule(user.NewUserHandler(user.NewUserService(userRepo, user.NewProfileStats(db))), policy),
		follower.NewModule(follower.NewFollowerHandler(
			follower.NewFollowService(follower.NewFollowRepository(db), userRepo, infra.events))),
		quiz.NewModule(quiz.NewQuizHandler(quizSvc, int64(cfg.Storage.MaxUploadMB)<<20), infra.images != nil),
	}

	// 5. Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	skipLog := []string{"/health"}
	publicPaths := append([]string{"/health"}, cfg.Auth.PublicPaths...)

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		skipLog = append(skipLog, cfg.Metrics.Path)
		publicPaths = append(publicPaths, cfg.Metrics.Path)
	}

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: cfg.Server.TrustRequestID}),
		middleware.Logger(log.Logger, skipLog...),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
	)
	if registry != nil {
		engine.Use(middleware.Metrics(registry))
	}
	engine.Use(middleware.Authenticate(middleware.AuthConfig{
		Tokens:      tokens,
		Users:       userRepo,
		PublicPaths: publicPaths,
		Logger:      log.Logger,
	}))

	// 6. Routes.
	deps := &RouteDeps{
		Modules:   modules,
		DB:        db,
		Profiling: cfg.Server.Mode == gin.DebugMode,
	}
	if registry != nil {
		deps.MetricsPath = cfg.Metrics.Path
		deps.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	a.engine = engine
	success = true
	return a, nil
}

type infrastructure struct {
	cache  cache.Store
	events events.Publisher
	images storage.ImageStore
}

// setupInfrastructure connects the optional redis, rabbitmq and object
// storage clients. Disabled components are replaced by no-ops, or nil for
// the image store.
func (a *App) setupInfrastructure(ctx context.Context) (*infrastructure, error) {
	cfg := a.cfg
	infra := &infrastructure{cache: cache.Nop{}, events: events.Nop{}}

	rdb, err := config.SetupRedis(ctx, &cfg.Redis, a.logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup redis: %w", err)
	}
	if rdb != nil {
		a.closers = append(a.closers, closer{name: "redis", close: rdb.Close})
		infra.cache = cache.NewRedisStore(rdb, "quizhub:")
	}

	if cfg.Events.Enabled {
		pub, err := events.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			return nil, fmt.Errorf("setup events: %w", err)
		}
		a.closers = append(a.closers, closer{name: "events", close: pub.Close})
		infra.events = pub
		a.logger.Info("event publisher connected", slog.String("exchange", cfg.Events.Exchange))
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewMinioStore(storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("setup storage: %w", err)
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(bucketCtx); err != nil {
			return nil, fmt.Errorf("setup storage: %w", err)
		}
		infra.images = store
		a.logger.Info("image storage ready", slog.String("bucket", cfg.Storage.Bucket))
	}

	return infra, nil
}

// resolveCORSConfig builds the middleware config from application settings.
// In release mode, when no allowlist is configured, cross-origin requests are
// denied.
func resolveCORSConfig(mode string, cors config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(cors.AllowMethods) > 0 {
		corsConfig.AllowMethods = cors.AllowMethods
	}
	if len(cors.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cors.AllowHeaders
	}
	corsConfig.AllowCredentials = cors.AllowCredentials
	if d, err := time.ParseDuration(cors.MaxAge); err == nil && d > 0 {
		corsConfig.MaxAge = d
	}

	switch {
	case len(cors.AllowOrigins) > 0:
		corsConfig.AllowOrigins = cors.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}
	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg != nil {
		if d, err := time.ParseDuration(a.cfg.Server.ShutdownTimeout); err == nil && d > 0 {
			return d
		}
	}
	return defaultShutdownTimeout
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger.Logger
	}
	return slog.Default()
}

// release closes infrastructure clients in reverse order, then the database
// and finally the logger.
func (a *App) release() {
	log := a.log()
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			log.Error(c.name+" close error", slog.Any("error", err))
		}
	}
	a.closers = nil

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", slog.Any("error", err))
			} else {
				log.Info("database connection closed")
			}
		}
	}

	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It shuts the server down gracefully within server.shutdown_timeout and
// then releases every client opened by New.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := a.log()
	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	log.Info("server stopped")
	a.release()
	return runErr
}
