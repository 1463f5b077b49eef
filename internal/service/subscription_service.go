package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/repository"
)

// 可注入时钟，测试用
var nowFunc = time.Now

var (
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrNotSubscriptionType  = errors.New("非订阅类交易")
)

// SubscriptionService 订阅生命周期状态机：
// none → active → (过期为派生状态) → active（续费）→ deactivated（显式取消）。
// 过期不靠后台任务翻转，读取方统一用 now < expired_at 判断。
type SubscriptionService struct {
	subscriptionRepo *repository.SubscriptionRepository
	accountRepo      *repository.AccountRepository
	catalogRepo      *repository.CatalogRepository
	statRepo         *repository.StatRepository
	cfg              *config.Config
}

func NewSubscriptionService(
	subscriptionRepo *repository.SubscriptionRepository,
	accountRepo *repository.AccountRepository,
	catalogRepo *repository.CatalogRepository,
	statRepo *repository.StatRepository,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		accountRepo:      accountRepo,
		catalogRepo:      catalogRepo,
		statRepo:         statRepo,
		cfg:              cfg,
	}
}

// HandleTransaction 消费成功的订阅类交易：首次创建行，续费刷新同一行。
// 对重复投递幂等；expired_at 只增不减。
func (s *SubscriptionService) HandleTransaction(tx *model.Transaction) error {
	if !tx.IsSubscription() {
		return ErrNotSubscriptionType
	}

	subType := subscriptionTypeOf(tx.Type)
	duration, err := s.planDuration(subType, tx.PerformerID)
	if err != nil {
		return err
	}

	now := nowFunc()

	sub, err := s.subscriptionRepo.GetByUserAndPerformer(tx.BuyerID, tx.PerformerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		expiredAt := now.Add(duration)
		created := &model.Subscription{
			UserID:             tx.BuyerID,
			PerformerID:        tx.PerformerID,
			SubscriptionType:   subType,
			Status:             model.SubscriptionActive,
			StartRecurringDate: now,
			NextRecurringDate:  expiredAt,
			ExpiredAt:          expiredAt,
			TransactionID:      tx.ID,
		}
		if err := s.subscriptionRepo.Create(created); err != nil {
			return err
		}
		// 唯一键冲突时 Create 不写入，重新读取后走续费路径
		sub, err = s.subscriptionRepo.GetByUserAndPerformer(tx.BuyerID, tx.PerformerID)
		if err != nil {
			return err
		}
		if sub.TransactionID == tx.ID {
			// 真正的 0→1 激活
			return s.bumpCounters(tx.BuyerID, tx.PerformerID)
		}
	} else if err != nil {
		return err
	}

	// 同一交易的重复投递
	if sub.TransactionID == tx.ID {
		return nil
	}

	wasEffective := sub.IsEffective(now)

	// 续费从 max(now, expiredAt) 起算，迟到的续费事件不会缩短有效期
	base := now
	if sub.ExpiredAt.After(now) {
		base = sub.ExpiredAt
	}
	expiredAt := base.Add(duration)

	renewed, err := s.subscriptionRepo.Renew(sub.ID, tx.ID, expiredAt, expiredAt)
	if err != nil {
		return err
	}
	if !renewed {
		// 已有更晚的到期时间，事件乱序，按幂等处理
		return nil
	}

	if !wasEffective {
		return s.bumpCounters(tx.BuyerID, tx.PerformerID)
	}
	return nil
}

// Cancel 立即停用，expired_at 保持不变
func (s *SubscriptionService) Cancel(userID, performerID int64) error {
	if _, err := s.subscriptionRepo.GetByUserAndPerformer(userID, performerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return s.subscriptionRepo.SetStatus(userID, performerID, model.SubscriptionDeactivated)
}

// Reactivate 用已存的订阅类型从当前时刻重算有效期
func (s *SubscriptionService) Reactivate(userID, performerID int64) (*model.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByUserAndPerformer(userID, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	now := nowFunc()
	wasEffective := sub.IsEffective(now)

	duration, err := s.planDuration(sub.SubscriptionType, performerID)
	if err != nil {
		return nil, err
	}

	expiredAt := now.Add(duration)
	if err := s.subscriptionRepo.Reactivate(sub.ID, now, expiredAt); err != nil {
		return nil, err
	}

	if !wasEffective {
		if err := s.bumpCounters(userID, performerID); err != nil {
			return nil, err
		}
	}

	return s.subscriptionRepo.GetByUserAndPerformer(userID, performerID)
}

// IsActive 所有消费方共用的有效性规则
func (s *SubscriptionService) IsActive(userID, performerID int64) (bool, error) {
	sub, err := s.subscriptionRepo.GetByUserAndPerformer(userID, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.IsEffective(nowFunc()), nil
}

// Status 订阅状态视图
func (s *SubscriptionService) Status(userID, performerID int64) (*dto.SubscriptionStatus, error) {
	sub, err := s.subscriptionRepo.GetByUserAndPerformer(userID, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &dto.SubscriptionStatus{
		PerformerID:      sub.PerformerID,
		SubscriptionType: sub.SubscriptionType,
		Status:           sub.Status,
		Effective:        sub.IsEffective(nowFunc()),
		ExpiredAt:        sub.ExpiredAt.Format(time.RFC3339),
		NextRecurringAt:  sub.NextRecurringDate.Format(time.RFC3339),
	}, nil
}

func (s *SubscriptionService) bumpCounters(userID, performerID int64) error {
	if err := s.statRepo.IncrementSubscribers(performerID); err != nil {
		return err
	}
	return s.accountRepo.IncrementSubscriptionCount(userID)
}

func (s *SubscriptionService) planDuration(subType string, performerID int64) (time.Duration, error) {
	day := 24 * time.Hour
	switch subType {
	case model.SubscriptionMonthly:
		return time.Duration(s.cfg.Subscription.MonthlyDays) * day, nil
	case model.SubscriptionYearly:
		return time.Duration(s.cfg.Subscription.YearlyDays) * day, nil
	case model.SubscriptionFree:
		performer, err := s.catalogRepo.GetPerformer(performerID)
		if err != nil {
			return 0, err
		}
		days := performer.DurationFreeSubscriptionDays
		if days <= 0 {
			days = s.cfg.Subscription.DefaultFreeDays
		}
		return time.Duration(days) * day, nil
	}
	return 0, ErrNotSubscriptionType
}

func subscriptionTypeOf(transactionType string) string {
	switch transactionType {
	case model.TypeMonthlySubscription:
		return model.SubscriptionMonthly
	case model.TypeYearlySubscription:
		return model.SubscriptionYearly
	case model.TypeFreeSubscription:
		return model.SubscriptionFree
	}
	return ""
}
