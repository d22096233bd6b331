package repository

import (
	"github.com/lshigami/cctfd/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityChallengeRepository interface {
	// Create inserts the base row and the subtype row together.
	Create(challenge *model.Challenge, owner uint) error
	FindByID(id uint) (*model.CommunityChallengeDetail, error)
	FindOwner(id uint) (uint, error)
	// LockByID reads the subtype row with SELECT ... FOR UPDATE. Only
	// meaningful on a repository bound to a transaction.
	LockByID(id uint) (*model.CommunityChallenge, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) CommunityChallengeRepository
}

type communityChallengeRepository struct {
	db *gorm.DB
}

func NewCommunityChallengeRepository(db *gorm.DB) CommunityChallengeRepository {
	return &communityChallengeRepository{db: db}
}

func (r *communityChallengeRepository) WithTx(tx *gorm.DB) CommunityChallengeRepository {
	return &communityChallengeRepository{db: tx}
}

func (r *communityChallengeRepository) Create(challenge *model.Challenge, owner uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		return tx.Create(&model.CommunityChallenge{ID: challenge.ID, Owner: owner}).Error
	})
}

func (r *communityChallengeRepository) FindByID(id uint) (*model.CommunityChallengeDetail, error) {
	var detail model.CommunityChallengeDetail
	result := r.db.Table("challenges").
		Select("challenges.*, community_challenge_model.owner AS owner").
		Joins("JOIN community_challenge_model ON community_challenge_model.id = challenges.id").
		Where("challenges.id = ?", id).
		Scan(&detail)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &detail, nil
}

func (r *communityChallengeRepository) FindOwner(id uint) (uint, error) {
	var cc model.CommunityChallenge
	if err := r.db.Select("owner").First(&cc, id).Error; err != nil {
		return 0, err
	}
	return cc.Owner, nil
}

func (r *communityChallengeRepository) LockByID(id uint) (*model.CommunityChallenge, error) {
	var cc model.CommunityChallenge
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cc, id).Error; err != nil {
		return nil, err
	}
	return &cc, nil
}

func (r *communityChallengeRepository) Delete(id uint) error {
	return r.db.Delete(&model.CommunityChallenge{}, id).Error
}
