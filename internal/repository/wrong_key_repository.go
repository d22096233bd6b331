package repository

import (
	"time"

	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type WrongKeyRepository interface {
	Create(wrong *model.WrongKey) error
	CountForTeam(chalID, teamID uint) (int64, error)
	// CountRecent counts the wrong keys a team submitted on any challenge
	// since the given time.
	CountRecent(teamID uint, since time.Time) (int64, error)
	DeleteByChallenge(chalID uint) error
	WithTx(tx *gorm.DB) WrongKeyRepository
}

type wrongKeyRepository struct {
	db *gorm.DB
}

func NewWrongKeyRepository(db *gorm.DB) WrongKeyRepository {
	return &wrongKeyRepository{db: db}
}

func (r *wrongKeyRepository) WithTx(tx *gorm.DB) WrongKeyRepository {
	return &wrongKeyRepository{db: tx}
}

func (r *wrongKeyRepository) Create(wrong *model.WrongKey) error {
	return r.db.Create(wrong).Error
}

func (r *wrongKeyRepository) CountForTeam(chalID, teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.WrongKey{}).
		Where("chal_id = ? AND team_id = ?", chalID, teamID).
		Count(&count).Error
	return count, err
}

func (r *wrongKeyRepository) CountRecent(teamID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.WrongKey{}).
		Where("team_id = ? AND date >= ?", teamID, since).
		Count(&count).Error
	return count, err
}

func (r *wrongKeyRepository) DeleteByChallenge(chalID uint) error {
	return r.db.Where("chal_id = ?", chalID).Delete(&model.WrongKey{}).Error
}
