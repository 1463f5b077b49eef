package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/token_go_server/internal/model"
)

type EarningRepository struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) *EarningRepository {
	return &EarningRepository{db: db}
}

// Upsert 按 transaction_id 幂等写入，重复投递不会产生第二行
func (r *EarningRepository) Upsert(earning *model.Earning) (*model.Earning, error) {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(earning).Error; err != nil {
		return nil, err
	}
	return r.GetByTransactionID(earning.TransactionID)
}

func (r *EarningRepository) GetByTransactionID(transactionID int64) (*model.Earning, error) {
	var earning model.Earning
	err := r.db.Where("transaction_id = ?", transactionID).First(&earning).Error
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

// SumUnpaidNet 未结算净收益合计
func (r *EarningRepository) SumUnpaidNet(performerID int64) (float64, error) {
	var total float64
	err := r.db.Model(&model.Earning{}).
		Where("performer_id = ? AND is_paid = ?", performerID, false).
		Select("COALESCE(SUM(net_price), 0)").
		Scan(&total).Error
	return total, err
}

// SumPaidNet 已结算净收益合计
func (r *EarningRepository) SumPaidNet(performerID int64) (float64, error) {
	var total float64
	err := r.db.Model(&model.Earning{}).
		Where("performer_id = ? AND is_paid = ?", performerID, true).
		Select("COALESCE(SUM(net_price), 0)").
		Scan(&total).Error
	return total, err
}

// ListUnpaidOldestFirst 按成交时间从旧到新列出未结算分成
func (r *EarningRepository) ListUnpaidOldestFirst(performerID int64) ([]*model.Earning, error) {
	var list []*model.Earning
	err := r.db.Where("performer_id = ? AND is_paid = ?", performerID, false).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *EarningRepository) MarkPaid(ids []int64, paidAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Earning{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_paid": true,
			"paid_at": paidAt,
		}).Error
}
