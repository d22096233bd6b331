package model

import "time"

// Award is a score adjustment for a team. Bonus awards for community
// challenges point back at the challenge through ChalID; manual awards leave
// it nil.
type Award struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TeamID      uint      `gorm:"not null;index" json:"teamid"`
	ChalID      *uint     `gorm:"index" json:"chalid,omitempty"`
	Name        string    `gorm:"size:80" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"autoCreateTime" json:"date"`
	Value       int       `gorm:"not null;default:0" json:"value"`
	Category    string    `gorm:"size:80" json:"category"`
	Icon        string    `gorm:"type:text" json:"icon"`
}
