package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/token_go_server/internal/model"
)

type StatRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) ensureRow(performerID int64) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "performer_id"}},
		DoNothing: true,
	}).Create(&model.PerformerStat{PerformerID: performerID}).Error
}

func (r *StatRepository) GetByPerformerID(performerID int64) (*model.PerformerStat, error) {
	var stat model.PerformerStat
	err := r.db.Where("performer_id = ?", performerID).First(&stat).Error
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// IncrementSubscribers 仅在订阅 0→1 激活时调用
func (r *StatRepository) IncrementSubscribers(performerID int64) error {
	if err := r.ensureRow(performerID); err != nil {
		return err
	}
	return r.db.Model(&model.PerformerStat{}).
		Where("performer_id = ?", performerID).
		Update("subscriber_count", gorm.Expr("subscriber_count + 1")).Error
}

// AddSale 累加成交统计
func (r *StatRepository) AddSale(performerID int64, gross, net float64) error {
	if err := r.ensureRow(performerID); err != nil {
		return err
	}
	return r.db.Model(&model.PerformerStat{}).
		Where("performer_id = ?", performerID).
		Updates(map[string]interface{}{
			"total_gross": gorm.Expr("total_gross + ?", gross),
			"total_net":   gorm.Expr("total_net + ?", net),
			"sale_count":  gorm.Expr("sale_count + 1"),
		}).Error
}
