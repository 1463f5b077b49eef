package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/token_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByUserAndPerformer(userID, performerID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ? AND performer_id = ?", userID, performerID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create 并发下撞到唯一键时不报错，由调用方重新读取后走续费路径
func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "performer_id"}},
		DoNothing: true,
	}).Create(sub).Error
}

// Renew 条件更新保证 expired_at 单调不减：到期时间更早的续费事件影响 0 行
func (r *SubscriptionRepository) Renew(id int64, transactionID int64, nextRecurring, expiredAt time.Time) (bool, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("id = ? AND expired_at <= ?", id, expiredAt).
		Updates(map[string]interface{}{
			"status":              model.SubscriptionActive,
			"next_recurring_date": nextRecurring,
			"expired_at":          expiredAt,
			"transaction_id":      transactionID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Reactivate 显式恢复订阅：从当前时刻重算有效期，不受单调性约束
func (r *SubscriptionRepository) Reactivate(id int64, startAt, expiredAt time.Time) error {
	return r.db.Model(&model.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":               model.SubscriptionActive,
			"start_recurring_date": startAt,
			"next_recurring_date":  expiredAt,
			"expired_at":           expiredAt,
		}).Error
}

func (r *SubscriptionRepository) SetStatus(userID, performerID int64, status string) error {
	return r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND performer_id = ?", userID, performerID).
		Update("status", status).Error
}

func (r *SubscriptionRepository) ListByUser(userID int64) ([]*model.Subscription, error) {
	var list []*model.Subscription
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&list).Error
	return list, err
}

// DeactivateExpired 对账任务用：回收过期超过宽限期仍标记 active 的行
func (r *SubscriptionRepository) DeactivateExpired(before time.Time) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("status = ? AND expired_at < ?", model.SubscriptionActive, before).
		Update("status", model.SubscriptionDeactivated)
	return result.RowsAffected, result.Error
}
