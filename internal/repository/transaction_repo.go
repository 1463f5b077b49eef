package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(tx *model.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *TransactionRepository) GetByID(id int64) (*model.Transaction, error) {
	var tx model.Transaction
	err := r.db.Preload("Products").Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) GetByOrderNumber(orderNumber string) (*model.Transaction, error) {
	var tx model.Transaction
	err := r.db.Preload("Products").Where("order_number = ?", orderNumber).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ExistsSuccessfulPurchase 是否已有成功且未退款的同目标交易（打赏类不参与去重）
func (r *TransactionRepository) ExistsSuccessfulPurchase(buyerID, targetID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).
		Where("buyer_id = ? AND target_id = ? AND status = ?", buyerID, targetID, model.StatusSuccess).
		Where("type NOT IN ?", []string{model.TypeTip, model.TypeStreamTip}).
		Count(&count).Error
	return count > 0, err
}

// MarkRefunded 仅允许 success → refunded
func (r *TransactionRepository) MarkRefunded(id int64) (bool, error) {
	result := r.db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.StatusSuccess).
		Update("status", model.StatusRefunded)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TransactionRepository) ListByBuyer(buyerID int64, page, pageSize int) ([]*model.Transaction, int64, error) {
	var list []*model.Transaction
	var total int64

	query := r.db.Model(&model.Transaction{}).Where("buyer_id = ?", buyerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := query.Preload("Products").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	return list, total, err
}
