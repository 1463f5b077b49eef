package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/api"
	"github.com/qs3c/token_go_server/internal/api/handler"
	"github.com/qs3c/token_go_server/internal/database"
	"github.com/qs3c/token_go_server/internal/pkg/email"
	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/repository"
	"github.com/qs3c/token_go_server/internal/service"
)

func main() {
	// .env 可选，容器环境直接用环境变量
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Repository
	accountRepo := repository.NewAccountRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	earningRepo := repository.NewEarningRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	statRepo := repository.NewStatRepository(db)

	// 初始化事件发布
	publisher := eventbus.NewPublisher(rdb)

	// 邮件服务（可选，未配置 SMTP 时跳过通知）
	var mailer *email.Service
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewService(&cfg.Email)
		log.Println("Mailer initialized")
	}

	// 初始化 Service
	accountService := service.NewAccountService(accountRepo)
	commissionService := service.NewCommissionService(commissionRepo, cfg)
	earningService := service.NewEarningService(earningRepo, commissionService)
	purchaseService := service.NewPurchaseService(db, accountRepo, txRepo, catalogRepo, couponRepo, earningService, publisher, cfg)
	entitlementService := service.NewEntitlementService(catalogRepo, txRepo, subscriptionRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, accountRepo, catalogRepo, statRepo, cfg)
	payoutService := service.NewPayoutService(db, payoutRepo, earningRepo, catalogRepo, mailer, cfg)

	// 初始化 Handler
	accountHandler := handler.NewAccountHandler(accountService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	entitlementHandler := handler.NewEntitlementHandler(entitlementService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	payoutHandler := handler.NewPayoutHandler(payoutService)

	// 初始化 Router
	router := api.NewRouter(
		accountHandler,
		purchaseHandler,
		entitlementHandler,
		subscriptionHandler,
		payoutHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
