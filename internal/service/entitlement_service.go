package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/repository"
)

// EntitlementService 回答 "用户能否访问内容"。
// 权限是由交易和订阅状态推导出来的视图，不落库，随时可重算，
// 因此不能无限期缓存：过期判断依赖墙钟。
type EntitlementService struct {
	catalogRepo      *repository.CatalogRepository
	txRepo           *repository.TransactionRepository
	subscriptionRepo *repository.SubscriptionRepository
}

func NewEntitlementService(
	catalogRepo *repository.CatalogRepository,
	txRepo *repository.TransactionRepository,
	subscriptionRepo *repository.SubscriptionRepository,
) *EntitlementService {
	return &EntitlementService{
		catalogRepo:      catalogRepo,
		txRepo:           txRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// CanAccess 订阅通道与单卖通道取并集；两者都不开启的内容视为公开
func (s *EntitlementService) CanAccess(userID, contentID int64) (bool, error) {
	content, err := s.catalogRepo.GetContent(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrContentNotFound
		}
		return false, err
	}

	// 表演者访问自己的内容
	if content.PerformerID == userID {
		return true, nil
	}

	if !content.SubscriptionGated && !content.IsSale {
		return true, nil
	}

	if content.SubscriptionGated {
		sub, err := s.subscriptionRepo.GetByUserAndPerformer(userID, content.PerformerID)
		if err == nil && sub.IsEffective(nowFunc()) {
			return true, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}

	if content.IsSale {
		purchased, err := s.txRepo.ExistsSuccessfulPurchase(userID, contentID)
		if err != nil {
			return false, err
		}
		if purchased {
			return true, nil
		}
	}

	return false, nil
}
