package model

// Key is an accepted flag for a challenge. Type selects the comparison
// strategy and Data carries its options (e.g. "case_insensitive").
type Key struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	ChalID uint   `gorm:"not null;index" json:"chal"`
	Type   string `gorm:"size:80;not null;default:'static'" json:"type"`
	Flag   string `gorm:"type:text;not null" json:"flag"`
	Data   string `gorm:"type:text" json:"data,omitempty"`
}
