package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	FindByID(id uint) (*model.Challenge, error)
	FindVisible() ([]model.Challenge, error)
	Save(challenge *model.Challenge) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) ChallengeRepository
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) WithTx(tx *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: tx}
}

func (r *challengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindVisible returns every challenge that is not hidden, cheapest first.
func (r *challengeRepository) FindVisible() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.db.
		Where("hidden = ? OR hidden IS NULL", false).
		Order("value ASC").Order("id ASC").
		Find(&challenges).Error
	return challenges, err
}

func (r *challengeRepository) Save(challenge *model.Challenge) error {
	return r.db.Save(challenge).Error
}

func (r *challengeRepository) Delete(id uint) error {
	return r.db.Delete(&model.Challenge{}, id).Error
}
