package service

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/repository"
)

// EarningService 把成功交易拆分为平台抽成和表演者净收益。
// 比例在成交时快照进 Earning 行，之后修改抽成配置不影响历史记录。
type EarningService struct {
	earningRepo       *repository.EarningRepository
	commissionService *CommissionService
}

func NewEarningService(earningRepo *repository.EarningRepository, commissionService *CommissionService) *EarningService {
	return &EarningService{
		earningRepo:       earningRepo,
		commissionService: commissionService,
	}
}

// Build 计算分成，不落库
func (s *EarningService) Build(tx *model.Transaction) *model.Earning {
	rate := s.commissionService.Resolve(tx.PerformerID, tx.Type)
	commission, net := SplitGross(tx.TotalPrice, rate)

	return &model.Earning{
		TransactionID:        tx.ID,
		PerformerID:          tx.PerformerID,
		UserID:               tx.BuyerID,
		Type:                 tx.Type,
		GrossPrice:           tx.TotalPrice,
		SiteCommissionRate:   rate,
		SiteCommissionAmount: commission,
		NetPrice:             net,
		IsPaid:               false,
	}
}

// Record 幂等落库：同一 transaction_id 重复调用不会产生第二行
func (s *EarningService) Record(tx *model.Transaction) (*model.Earning, error) {
	return s.earningRepo.Upsert(s.Build(tx))
}

// RecordTx 在给定数据库事务内落库，供购买编排在同一工作单元中调用
func (s *EarningService) RecordTx(db *gorm.DB, tx *model.Transaction) (*model.Earning, error) {
	return repository.NewEarningRepository(db).Upsert(s.Build(tx))
}

// SplitGross 按比例拆分毛收入，保留两位小数且 commission + net == gross 精确成立
func SplitGross(gross, rate float64) (commission, net float64) {
	g := decimal.NewFromFloat(gross)
	c := g.Mul(decimal.NewFromFloat(rate)).Round(2)
	n := g.Sub(c)

	commission, _ = c.Float64()
	net, _ = n.Float64()
	return commission, net
}
