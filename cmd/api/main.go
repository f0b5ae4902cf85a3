package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estore/internal/config"
	"estore/internal/handler"
	"estore/internal/infra/db"
	infraRepo "estore/internal/infra/repository"
	"estore/internal/logging"
	"estore/internal/server"
	"estore/internal/usecase"
	auth "estore/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .envは任意（無ければ環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalj(log.JSON{"action": "config.load", "error": err.Error()})
	}

	logger := logging.New("estore", cfg.LogLevel, os.Stdout)

	// 金額はJSONで数値として出す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalj(log.JSON{"action": "db.connect", "driver": cfg.DBDriver, "error": err.Error()})
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalj(log.JSON{"action": "db.migrate", "error": err.Error()})
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatalj(log.JSON{"action": "db.handle", "error": err.Error()})
	}

	//Repository（GORM実装）生成
	repos := infraRepo.NewRepos(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, clock, &uuidGenerator{})

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()

	if cfg.SeedUsers {
		seedCfg := auth.SeedConfig{
			AdminPassword: cfg.SeedAdminPassword,
			UserPassword:  cfg.SeedUserPassword,
			Dev:           cfg.IsDev(),
		}
		if err := auth.SeedUsers(context.Background(), repos.Users(), hasher, seedCfg, logger); err != nil {
			logger.Fatalj(log.JSON{"action": "seed", "error": err.Error()})
		}
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(repos.Users(), hasher)
	loginUC := auth.NewLoginUsecase(repos.Users(), verifier, tokens, clock)
	categoryUC := usecase.NewCategoryUsecase(txm, repos.Categories(), repos.Products())
	productUC := usecase.NewProductUsecase(txm, repos.Products(), repos.Categories())
	cartUC := usecase.NewCartUsecase(repos.CartItems(), repos.Products())
	orderUC := usecase.NewOrderUsecase(txm)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm)
	userUC := usecase.NewUserUsecase(repos.Users(), repos.Orders())
	adminUserUC := usecase.NewAdminUserUsecase(txm, cfg.LowStockThreshold)

	//Handler生成
	e := server.New(cfg, server.Deps{
		Logger: logger,
		Tokens: tokens,
		Users:  repos.Users(),
		Handlers: server.Handlers{
			Auth:     handler.NewAuthHandler(registerUC, loginUC),
			Category: handler.NewCategoryHandler(categoryUC),
			Product:  handler.NewProductHandler(productUC),
			Cart:     handler.NewCartHandler(cartUC),
			Order:    handler.NewOrderHandler(orderUC, adminOrderUC),
			User:     handler.NewUserHandler(userUC),
			Admin:    handler.NewAdminHandler(adminUserUC),
		},
		Health: sqlDB.PingContext,
	})

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infoj(log.JSON{"action": "server.start", "addr": addr, "env": cfg.GoEnv})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalj(log.JSON{"action": "server.start", "error": err.Error()})
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorj(log.JSON{"action": "server.shutdown", "error": err.Error()})
	}
	_ = sqlDB.Close()
	logger.Infoj(log.JSON{"action": "server.stop"})
}
