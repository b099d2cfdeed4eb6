package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wego/internal/core/cache"
	"wego/internal/core/config"
	"wego/internal/core/crypto"
	"wego/internal/core/database"
	"wego/internal/core/logger"
	"wego/internal/core/server"
	"wego/internal/core/session"
	"wego/internal/core/validate"
	"wego/internal/domain"
	"wego/internal/repo"
	"wego/internal/service"
	"wego/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.App{}, &domain.Setting{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis is optional: without it sessions live in process memory and the
	// proxy skips caching.
	var redisCache *cache.Cache
	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		redisCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Fatal("redis ping", zap.Error(err))
		}
		defer redisCache.Close()
		sessionStore = session.NewRedisStore(redisCache.Client())
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Session.Secret == "" {
		log.Fatal("session secret is required")
	}

	hasher := crypto.NewHasher(crypto.Params{
		TimeCost:  uint32(cfg.Argon.TimeCost),
		MemoryKiB: uint32(cfg.Argon.MemoryKiB),
		Lanes:     uint8(cfg.Argon.Lanes),
	}, int64(cfg.Argon.MaxConcurrent))

	sessions := session.NewManager(
		[]byte(cfg.Session.Secret),
		cfg.Session.Issuer,
		session.Policy{
			AbsoluteTTL: time.Duration(cfg.Session.AbsoluteTTLHours) * time.Hour,
			IdleTTL:     time.Duration(cfg.Session.IdleTTLHours) * time.Hour,
		},
		sessionStore,
	)

	userRepo := repo.NewUserRepo(db)
	appRepo := repo.NewAppRepo(db)
	settingRepo := repo.NewSettingRepo(db)

	rules := validate.NewRules()

	r := router.NewAPIEngine(router.Deps{
		Logger:   log,
		Sessions: sessions,
		Users:    userRepo,
		Auth:     service.NewAuthService(userRepo, hasher, sessions),
		UserSvc:  service.NewUserService(userRepo, hasher, rules),
		Apps:     service.NewAppService(appRepo),
		Settings: service.NewSettingService(settingRepo),
		Proxy: service.NewProxyService(
			redisCache,
			time.Duration(cfg.Proxy.TimeoutSec)*time.Second,
			time.Duration(cfg.Proxy.CacheTTLSec)*time.Second,
			cfg.Proxy.MaxBodyBytes,
		),
		Files:    service.NewFileService(cfg.Files.Dir),
		FilesDir: cfg.Files.Dir,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
