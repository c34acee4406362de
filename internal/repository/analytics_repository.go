package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// FindByUserID 加载用户的分析聚合，日活动按日期升序
func (r *AnalyticsRepository) FindByUserID(userID uint) (*model.ProgressAnalytics, error) {
	var analytics model.ProgressAnalytics
	err := r.DB.
		Preload("DailyActivity", func(db *gorm.DB) *gorm.DB {
			return db.Order("date asc")
		}).
		Where("user_id = ?", userID).
		First(&analytics).Error
	return &analytics, err
}

// FindOrCreate 首次访问时惰性创建用户的分析记录
func (r *AnalyticsRepository) FindOrCreate(userID uint) (*model.ProgressAnalytics, error) {
	analytics, err := r.FindByUserID(userID)
	if err == nil {
		return analytics, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	analytics = &model.ProgressAnalytics{
		UserID: userID,
		Level:  1,
	}
	if err := r.DB.Create(analytics).Error; err != nil {
		return nil, err
	}
	return analytics, nil
}

// Save 持久化整个聚合，日活动记录一并落库
func (r *AnalyticsRepository) Save(analytics *model.ProgressAnalytics) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(analytics).Error
}
