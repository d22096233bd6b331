package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type HintRepository interface {
	FindByChallenge(chalID uint) ([]model.Hint, error)
	DeleteByChallenge(chalID uint) error
	WithTx(tx *gorm.DB) HintRepository
}

type hintRepository struct {
	db *gorm.DB
}

func NewHintRepository(db *gorm.DB) HintRepository {
	return &hintRepository{db: db}
}

func (r *hintRepository) WithTx(tx *gorm.DB) HintRepository {
	return &hintRepository{db: tx}
}

func (r *hintRepository) FindByChallenge(chalID uint) ([]model.Hint, error) {
	var hints []model.Hint
	err := r.db.Where("chal_id = ?", chalID).Order("id ASC").Find(&hints).Error
	return hints, err
}

func (r *hintRepository) DeleteByChallenge(chalID uint) error {
	return r.db.Where("chal_id = ?", chalID).Delete(&model.Hint{}).Error
}
