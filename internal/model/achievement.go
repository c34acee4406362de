package model

import "time"

type Achievement struct {
	BaseModel
	UserID   uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	Title    string    `gorm:"size:100;not null" json:"title"`
	Icon     string    `gorm:"size:255" json:"icon"`
	EarnedXP int       `gorm:"default:0" json:"earnedXp"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
