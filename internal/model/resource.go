package model

import "time"

type File struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ChalID   uint   `gorm:"not null;index" json:"chal"`
	Location string `gorm:"type:text;not null" json:"location"`
}

type Tag struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	ChalID uint   `gorm:"not null;index" json:"chal"`
	Tag    string `gorm:"size:80;not null" json:"tag"`
}

type Hint struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	ChalID uint   `gorm:"not null;index" json:"chal"`
	Type   int    `gorm:"not null;default:0" json:"type"`
	Hint   string `gorm:"type:text" json:"hint"`
	Cost   int    `gorm:"not null;default:0" json:"cost"`
}

// UnlockModelHints is the Unlock.Model value for unlocked hints.
const UnlockModelHints = "hints"

// Unlock records that a team paid for an item, currently only hints.
type Unlock struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	TeamID uint      `gorm:"not null;index" json:"teamid"`
	ItemID uint      `gorm:"not null" json:"itemid"`
	Model  string    `gorm:"size:32;not null" json:"model"`
	Date   time.Time `gorm:"autoCreateTime" json:"date"`
}
