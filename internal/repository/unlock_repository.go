package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
)

type UnlockRepository interface {
	FindItemIDs(teamID uint, itemModel string) (map[uint]bool, error)
}

type unlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

// FindItemIDs returns the set of item IDs a team unlocked for one model kind.
func (r *unlockRepository) FindItemIDs(teamID uint, itemModel string) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&model.Unlock{}).
		Where("team_id = ? AND model = ?", teamID, itemModel).
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
