package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
)

// CatalogRepository 内容目录与表演者档案的只读/库存访问
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetContent(id int64) (*model.Content, error) {
	var content model.Content
	err := r.db.Where("id = ?", id).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// DecrementStock 条件更新预减库存，库存不足时影响 0 行
func (r *CatalogRepository) DecrementStock(contentID int64, quantity int) (bool, error) {
	result := r.db.Model(&model.Content{}).
		Where("id = ? AND stock >= ?", contentID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LockPerformer 在事务内独占表演者行，作为该表演者提现额度核算的串行化点。
// InnoDB 下 UPDATE 的行锁持有到事务提交，后来者在锁上排队后读到的是已提交数据；
// SQLite 单写者天然串行。
func (r *CatalogRepository) LockPerformer(id int64) error {
	return r.db.Model(&model.Performer{}).
		Where("id = ?", id).
		Update("id", gorm.Expr("id")).Error
}

func (r *CatalogRepository) GetPerformer(id int64) (*model.Performer, error) {
	var performer model.Performer
	err := r.db.Where("id = ?", id).First(&performer).Error
	if err != nil {
		return nil, err
	}
	return &performer, nil
}
