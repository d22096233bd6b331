package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type TeamRepository interface {
	FindByID(id uint) (*model.Team, error)
	// FindNames resolves display names for a set of team IDs. Unknown IDs are
	// absent from the result.
	FindNames(ids []uint) (map[uint]string, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindByID(id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindNames(ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var teams []model.Team
	if err := r.db.Select("id", "name").Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}
