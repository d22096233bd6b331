package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(file *model.File) error
	FindByChallenge(chalID uint) ([]model.File, error)
	DeleteByChallenge(chalID uint) error
	WithTx(tx *gorm.DB) FileRepository
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) WithTx(tx *gorm.DB) FileRepository {
	return &fileRepository{db: tx}
}

func (r *fileRepository) Create(file *model.File) error {
	return r.db.Create(file).Error
}

func (r *fileRepository) FindByChallenge(chalID uint) ([]model.File, error) {
	var files []model.File
	err := r.db.Where("chal_id = ?", chalID).Order("id ASC").Find(&files).Error
	return files, err
}

func (r *fileRepository) DeleteByChallenge(chalID uint) error {
	return r.db.Where("chal_id = ?", chalID).Delete(&model.File{}).Error
}
