package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/database"
	"github.com/qs3c/token_go_server/internal/listener"
	"github.com/qs3c/token_go_server/internal/pkg/cron"
	"github.com/qs3c/token_go_server/internal/pkg/email"
	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/repository"
	"github.com/qs3c/token_go_server/internal/service"
)

func main() {
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
	catalogRepo := repository.NewCatalogRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	earningRepo := repository.NewEarningRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	statRepo := repository.NewStatRepository(db)

	// 邮件服务（可选，未配置 SMTP 时跳过通知）
	var mailer *email.Service
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewService(&cfg.Email)
		log.Println("Mailer initialized")
	}

	// 订阅生命周期服务，由订阅监听器驱动
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, accountRepo, catalogRepo, statRepo, cfg)

	// 事件监听器
	dispatcher := listener.NewDispatcher(
		listener.NewSubscriptionListener(subscriptionService),
		listener.NewStockListener(catalogRepo, rdb),
		listener.NewStatsListener(statRepo, earningRepo, rdb),
		listener.NewMailerListener(catalogRepo, accountRepo, earningRepo, mailer),
	)

	// 定时对账
	cronService := cron.NewService(subscriptionRepo, couponRepo, &cfg.Subscription)
	cronService.Start()
	defer cronService.Stop()

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Bus.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	log.Printf("Worker started, max workers: %d", maxWorkers)

	// 启动消费循环
	subscriber := eventbus.NewSubscriber(rdb)
	done := make(chan struct{}, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			defer func() { done <- struct{}{} }()
			err := subscriber.Subscribe(ctx, cfg.Bus.TransactionTopic, func(event *eventbus.TransactionEvent) error {
				return dispatcher.Handle(ctx, event)
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("Worker %d stopped: %v", workerID, err)
			}
		}(i)
	}

	for i := 0; i < maxWorkers; i++ {
		<-done
	}
	log.Println("Worker shutdown complete")
}
