package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"delivery/internal/config"
	"delivery/internal/handler"
	"delivery/internal/infra/auth"
	"delivery/internal/infra/cache"
	"delivery/internal/infra/db"
	infraRepo "delivery/internal/infra/repository"
	"delivery/internal/logger"
	"delivery/internal/metrics"
	"delivery/internal/server"
	"delivery/internal/usecase"
	authuc "delivery/internal/usecase/auth_usecase"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	// .env は任意（無ければ環境変数だけ）
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}

	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := authuc.NewBcryptPasswordHasher(12)
	verifier := authuc.NewBcryptPasswordVerifier()

	if cfg.SeedData {
		if err := db.Seed(ctx, gormDB, hasher.Hash); err != nil {
			log.Fatal().Err(err).Msg("db seed")
		}
	}

	appCache := newCache(ctx, cfg, log)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	restaurantRepo := infraRepo.NewCacheAsideRestaurantRepo(infraRepo.NewRestaurantGormRepository(gormDB), appCache, cfg.CacheTTL)
	customerRepo := infraRepo.NewCacheAsideCustomerRepo(infraRepo.NewCustomerGormRepository(gormDB), appCache, cfg.CacheTTL)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := usecase.SystemClock{}
	registry := metrics.NewRegistry()
	guard := usecase.NewGuard(productRepo)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)

	//Usecase生成
	registerUC := authuc.NewRegisterUserUsecase(userRepo, restaurantRepo, hasher, clock)
	loginUC := authuc.NewLoginUsecase(userRepo, verifier, issuer, clock)
	sessionUC := authuc.NewSessionUsecase(userRepo, clock)
	customerUC := usecase.NewCustomerUsecase(customerRepo, clock)
	restaurantUC := usecase.NewRestaurantUsecase(txm, restaurantRepo, guard, clock)
	productUC := usecase.NewProductUsecase(txm, productRepo, restaurantRepo, guard, clock)
	orderUC := usecase.NewOrderUsecase(txm, usecase.UUIDOrderNumberGenerator{}, clock, registry)
	reportUC := usecase.NewReportUsecase(txm)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:       handler.NewAuthHandler(registerUC, loginUC, sessionUC),
		Customer:   handler.NewCustomerHandler(customerUC),
		Restaurant: handler.NewRestaurantHandler(restaurantUC, productUC),
		Product:    handler.NewProductHandler(productUC),
		Order:      handler.NewOrderHandler(orderUC),
		Report:     handler.NewReportHandler(reportUC),
		AuditLog:   handler.NewAuditLogHandler(auditUC),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(func(ctx context.Context) error { return pingDB(ctx, gormDB) }),
			"cache":    appCache,
		}),
	}

	// 監視アラート（唯一のバックグラウンド処理）
	go metrics.NewAlertWorker(registry, cfg.AlertInterval, log).Run(ctx)

	e := server.New(cfg, log, userRepo, handlers)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.GoEnv).Msg("server starting")
	if err := server.Start(ctx, e, addr); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
	log.Info().Msg("server stopped")
}

// REDIS_ADDR が無い、または繋がらないときはキャッシュなしで動かす
func newCache(ctx context.Context, cfg config.Config, log zerolog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info().Msg("cache disabled")
		return cache.NopCache{}
	}
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, cache disabled")
		return cache.NopCache{}
	}
	return cache.NewRedisCache(rdb)
}

func pingDB(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
