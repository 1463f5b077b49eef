package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("code = ?", code).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsed 条件更新使用次数，用尽后影响 0 行
func (r *CouponRepository) IncrementUsed(code string) (bool, error) {
	result := r.db.Model(&model.Coupon{}).
		Where("code = ? AND active = ? AND (max_uses = 0 OR used_count < max_uses)", code, true).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeactivateExpired 对账任务用：停用已过期的优惠码
func (r *CouponRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Coupon{}).
		Where("active = ? AND expired_date < ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}
