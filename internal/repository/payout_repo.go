package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(req *model.PayoutRequest) error {
	return r.db.Create(req).Error
}

func (r *PayoutRepository) GetByID(id int64) (*model.PayoutRequest, error) {
	var req model.PayoutRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SumRequestedTokens 指定状态集合下的已申请代币合计（rejected 被排除后即释放额度）
func (r *PayoutRepository) SumRequestedTokens(performerID int64, statuses []string) (float64, error) {
	var total float64
	err := r.db.Model(&model.PayoutRequest{}).
		Where("performer_id = ? AND status IN ?", performerID, statuses).
		Select("COALESCE(SUM(request_tokens), 0)").
		Scan(&total).Error
	return total, err
}

// UpdateStatus 条件更新，from 状态不匹配时影响 0 行
func (r *PayoutRepository) UpdateStatus(id int64, from, to string) (bool, error) {
	result := r.db.Model(&model.PayoutRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeletePending 只允许删除 pending 状态且属于该表演者的申请
func (r *PayoutRepository) DeletePending(performerID, id int64) (bool, error) {
	result := r.db.Where("id = ? AND performer_id = ? AND status = ?", id, performerID, model.PayoutPending).
		Delete(&model.PayoutRequest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PayoutRepository) ListByPerformer(performerID int64, page, pageSize int) ([]*model.PayoutRequest, int64, error) {
	var list []*model.PayoutRequest
	var total int64

	query := r.db.Model(&model.PayoutRequest{}).Where("performer_id = ?", performerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	return list, total, err
}
