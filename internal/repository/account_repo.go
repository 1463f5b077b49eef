package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/token_go_server/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByUserID(userID int64) (*model.Account, error) {
	var acc model.Account
	err := r.db.Where("user_id = ?", userID).First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// UpsertByUserID 确保账户行存在（首次充值时创建）
func (r *AccountRepository) UpsertByUserID(userID int64) (*model.Account, error) {
	acc := model.Account{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&acc).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(userID)
}

// Debit 单条条件更新扣款，余额不足时影响 0 行且无任何副作用。
// 返回 false 表示余额不足。并发扣款依赖该条件更新串行化，余额不可能为负。
func (r *AccountRepository) Debit(userID int64, amount float64) (bool, error) {
	result := r.db.Model(&model.Account{}).
		Where("user_id = ? AND token_balance >= ?", userID, amount).
		Update("token_balance", gorm.Expr("token_balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Credit 入账，账户不存在时先建行
func (r *AccountRepository) Credit(userID int64, amount float64) error {
	if _, err := r.UpsertByUserID(userID); err != nil {
		return err
	}
	return r.db.Model(&model.Account{}).
		Where("user_id = ?", userID).
		Update("token_balance", gorm.Expr("token_balance + ?", amount)).Error
}

// IncrementSubscriptionCount 订阅数 0→1 激活时递增
func (r *AccountRepository) IncrementSubscriptionCount(userID int64) error {
	return r.db.Model(&model.Account{}).
		Where("user_id = ?", userID).
		Update("subscription_count", gorm.Expr("subscription_count + 1")).Error
}
