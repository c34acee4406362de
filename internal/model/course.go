package model

// swagger:model Course
type Course struct {
	BaseModel
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	CoverURL        string `gorm:"size:255" json:"coverUrl"`
	CreatorID       uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
	DurationMinutes int    `gorm:"default:0" json:"durationMinutes"` // 预计学习时长（分钟）
	IsPublished     bool   `gorm:"default:false" json:"isPublished"`
}

func (Course) TableName() string {
	return "courses"
}
