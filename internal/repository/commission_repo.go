package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) GetByPerformerID(performerID int64) (*model.CommissionSetting, error) {
	var setting model.CommissionSetting
	err := r.db.Where("performer_id = ?", performerID).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
