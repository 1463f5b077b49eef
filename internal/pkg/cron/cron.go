package cron

import (
	"log"
	"time"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/repository"
)

// Service 对账定时任务。订阅过期本身是派生条件（now < expired_at），
// 这里只是把过期超过宽限期仍标记 active 的行翻成 deactivated，
// 让报表和通知看到诚实的状态，权限判定从不依赖这次翻转。
type Service struct {
	subscriptionRepo *repository.SubscriptionRepository
	couponRepo       *repository.CouponRepository
	graceHours       int
	stopChan         chan struct{}
}

func NewService(
	subscriptionRepo *repository.SubscriptionRepository,
	couponRepo *repository.CouponRepository,
	cfg *config.SubscriptionConfig,
) *Service {
	graceHours := cfg.ReconcileGraceHours
	if graceHours <= 0 {
		graceHours = 24
	}
	return &Service{
		subscriptionRepo: subscriptionRepo,
		couponRepo:       couponRepo,
		graceHours:       graceHours,
		stopChan:         make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runSubscriptionSweep()
	go s.runCouponSweep()
	log.Println("Cron service started (subscription + coupon reconcile)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runSubscriptionSweep 每小时回收过期订阅的存储状态
func (s *Service) runSubscriptionSweep() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.reconcileSubscriptions()
		}
	}
}

func (s *Service) reconcileSubscriptions() {
	cutoff := time.Now().Add(-time.Duration(s.graceHours) * time.Hour)
	count, err := s.subscriptionRepo.DeactivateExpired(cutoff)
	if err != nil {
		log.Printf("Reconcile subscriptions failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Reconcile subscriptions: deactivated %d expired rows", count)
	}
}

// runCouponSweep 每天停用过期优惠码
func (s *Service) runCouponSweep() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.reconcileCoupons()
		}
	}
}

func (s *Service) reconcileCoupons() {
	count, err := s.couponRepo.DeactivateExpired(time.Now())
	if err != nil {
		log.Printf("Reconcile coupons failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Reconcile coupons: deactivated %d expired codes", count)
	}
}

// RunNow 立即执行一次对账（测试或手动触发）
func (s *Service) RunNow() {
	s.reconcileSubscriptions()
	s.reconcileCoupons()
}
