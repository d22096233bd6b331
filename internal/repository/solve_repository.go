package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type SolveRepository interface {
	Create(solve *model.Solve) error
	// CountValid counts the solves of a challenge by teams that are not banned.
	CountValid(chalID uint) (int64, error)
	ExistsForTeam(chalID, teamID uint) (bool, error)
	DeleteByChallenge(chalID uint) error
	WithTx(tx *gorm.DB) SolveRepository
}

type solveRepository struct {
	db *gorm.DB
}

func NewSolveRepository(db *gorm.DB) SolveRepository {
	return &solveRepository{db: db}
}

func (r *solveRepository) WithTx(tx *gorm.DB) SolveRepository {
	return &solveRepository{db: tx}
}

func (r *solveRepository) Create(solve *model.Solve) error {
	return r.db.Create(solve).Error
}

func (r *solveRepository) CountValid(chalID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Solve{}).
		Joins("JOIN teams ON teams.id = solves.team_id").
		Where("solves.chal_id = ? AND teams.banned = ?", chalID, false).
		Count(&count).Error
	return count, err
}

func (r *solveRepository) ExistsForTeam(chalID, teamID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Solve{}).
		Where("chal_id = ? AND team_id = ?", chalID, teamID).
		Count(&count).Error
	return count > 0, err
}

func (r *solveRepository) DeleteByChallenge(chalID uint) error {
	return r.db.Where("chal_id = ?", chalID).Delete(&model.Solve{}).Error
}
