package model

// Team is the host's participant account. Community challenges are owned by
// a team and bonus awards credit a team.
type Team struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Email    string `gorm:"size:128" json:"-"`
	Banned   bool   `gorm:"not null;default:false" json:"banned"`
	Verified bool   `gorm:"not null;default:false" json:"verified"`
	Admin    bool   `gorm:"not null;default:false" json:"admin"`
}
