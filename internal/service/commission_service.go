package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/repository"
)

// CommissionService 解析适用的抽成比例：表演者覆盖优先，缺省回落到平台默认。
// 纯读取，无副作用，可重复调用。
type CommissionService struct {
	commissionRepo *repository.CommissionRepository
	cfg            *config.Config
}

func NewCommissionService(commissionRepo *repository.CommissionRepository, cfg *config.Config) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		cfg:            cfg,
	}
}

// Resolve 返回 [0, 0.99] 区间内的抽成比例
func (s *CommissionService) Resolve(performerID int64, purchaseType string) float64 {
	setting, err := s.commissionRepo.GetByPerformerID(performerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		// 查询失败按未配置处理，使用平台默认
		setting = nil
	}

	if setting != nil {
		if rate := s.overrideRate(setting, purchaseType); rate != nil {
			return clampRate(*rate)
		}
	}

	return clampRate(s.defaultRate(purchaseType))
}

func (s *CommissionService) overrideRate(setting *model.CommissionSetting, purchaseType string) *float64 {
	switch purchaseType {
	case model.TypeMonthlySubscription, model.TypeFreeSubscription:
		return setting.MonthlySubscriptionRate
	case model.TypeYearlySubscription:
		return setting.YearlySubscriptionRate
	case model.TypeVideo:
		return setting.VideoRate
	case model.TypeGallery:
		return setting.GalleryRate
	case model.TypeProduct:
		return setting.ProductRate
	case model.TypeFeed:
		return setting.FeedRate
	case model.TypeTip, model.TypeStreamTip:
		return setting.TipRate
	case model.TypeStream:
		return setting.StreamRate
	}
	return nil
}

func (s *CommissionService) defaultRate(purchaseType string) float64 {
	c := s.cfg.Commission
	switch purchaseType {
	case model.TypeMonthlySubscription, model.TypeFreeSubscription:
		return c.MonthlySubscription
	case model.TypeYearlySubscription:
		return c.YearlySubscription
	case model.TypeVideo:
		return c.Video
	case model.TypeGallery:
		return c.Gallery
	case model.TypeProduct:
		return c.Product
	case model.TypeFeed:
		return c.Feed
	case model.TypeTip, model.TypeStreamTip:
		return c.Tip
	case model.TypeStream:
		return c.Stream
	}
	return 0
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 0.99 {
		return 0.99
	}
	return rate
}
