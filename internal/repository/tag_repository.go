package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type TagRepository interface {
	FindByChallenge(chalID uint) ([]model.Tag, error)
	DeleteByChallenge(chalID uint) error
	WithTx(tx *gorm.DB) TagRepository
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) FindByChallenge(chalID uint) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Where("chal_id = ?", chalID).Order("id ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) DeleteByChallenge(chalID uint) error {
	return r.db.Where("chal_id = ?", chalID).Delete(&model.Tag{}).Error
}
