package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type AwardRepository interface {
	Create(award *model.Award) error
	FindByChallenge(chalID uint) ([]model.Award, error)
	// DeleteBonus removes the bonus award of a challenge. Awards written
	// before chal_id existed are matched on owner, name and value instead.
	DeleteBonus(chalID, owner uint, legacyName string, value int) error
	WithTx(tx *gorm.DB) AwardRepository
}

type awardRepository struct {
	db *gorm.DB
}

func NewAwardRepository(db *gorm.DB) AwardRepository {
	return &awardRepository{db: db}
}

func (r *awardRepository) WithTx(tx *gorm.DB) AwardRepository {
	return &awardRepository{db: tx}
}

func (r *awardRepository) Create(award *model.Award) error {
	return r.db.Create(award).Error
}

func (r *awardRepository) FindByChallenge(chalID uint) ([]model.Award, error) {
	var awards []model.Award
	err := r.db.Where("chal_id = ?", chalID).Find(&awards).Error
	return awards, err
}

func (r *awardRepository) DeleteBonus(chalID, owner uint, legacyName string, value int) error {
	if err := r.db.Where("chal_id = ?", chalID).Delete(&model.Award{}).Error; err != nil {
		return err
	}
	return r.db.
		Where("chal_id IS NULL AND team_id = ? AND name = ? AND value = ?", owner, legacyName, value).
		Delete(&model.Award{}).Error
}
