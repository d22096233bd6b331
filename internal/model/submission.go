package model

import "time"

// Solve is a correct submission. Solves are append-only.
type Solve struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	ChalID uint      `gorm:"not null;index;uniqueIndex:idx_solves_chal_team" json:"chalid"`
	TeamID uint      `gorm:"not null;index;uniqueIndex:idx_solves_chal_team" json:"teamid"`
	IP     string    `gorm:"size:46" json:"ip"`
	Flag   string    `gorm:"type:text;not null" json:"flag"`
	Date   time.Time `gorm:"autoCreateTime" json:"date"`
}

// WrongKey is an incorrect submission. WrongKeys are append-only.
type WrongKey struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	ChalID uint      `gorm:"not null;index" json:"chalid"`
	TeamID uint      `gorm:"not null;index" json:"teamid"`
	IP     string    `gorm:"size:46" json:"ip"`
	Flag   string    `gorm:"type:text;not null" json:"flag"`
	Date   time.Time `gorm:"autoCreateTime" json:"date"`
}
