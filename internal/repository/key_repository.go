package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type KeyRepository interface {
	Create(key *model.Key) error
	FindByChallenge(chalID uint) ([]model.Key, error)
	DeleteByChallenge(chalID uint) error
	WithTx(tx *gorm.DB) KeyRepository
}

type keyRepository struct {
	db *gorm.DB
}

func NewKeyRepository(db *gorm.DB) KeyRepository {
	return &keyRepository{db: db}
}

func (r *keyRepository) WithTx(tx *gorm.DB) KeyRepository {
	return &keyRepository{db: tx}
}

func (r *keyRepository) Create(key *model.Key) error {
	return r.db.Create(key).Error
}

func (r *keyRepository) FindByChallenge(chalID uint) ([]model.Key, error) {
	var keys []model.Key
	err := r.db.Where("chal_id = ?", chalID).Order("id ASC").Find(&keys).Error
	return keys, err
}

func (r *keyRepository) DeleteByChallenge(chalID uint) error {
	return r.db.Where("chal_id = ?", chalID).Delete(&model.Key{}).Error
}
