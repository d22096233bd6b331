package model

const (
	ChallengeTypeStandard  = "standard"
	ChallengeTypeCommunity = "community"
)

// PlatformOwnerID is reported as the owner of every challenge that is not a
// community challenge.
const PlatformOwnerID uint = 1

type Challenge struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:80;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	MaxAttempts int    `gorm:"not null;default:0" json:"max_attempts"`
	Value       int    `gorm:"not null;default:0" json:"value"`
	Category    string `gorm:"size:80" json:"category"`
	Type        string `gorm:"size:80;not null;default:'standard'" json:"type"`
	Hidden      bool   `gorm:"not null;default:false" json:"hidden"`
}

// CommunityChallenge is the subtype row of a community challenge. Its ID is
// the ID of the base challenges row.
type CommunityChallenge struct {
	ID    uint `gorm:"primarykey;autoIncrement:false" json:"id"`
	Owner uint `gorm:"not null;index" json:"owner"`
}

func (CommunityChallenge) TableName() string {
	return "community_challenge_model"
}

// CommunityChallengeDetail is a community challenge joined with its base row.
type CommunityChallengeDetail struct {
	Challenge
	Owner uint `json:"owner"`
}
