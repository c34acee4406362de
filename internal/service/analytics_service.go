package service

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// 完成课程/路径时的经验奖励
const (
	XPForCourseCompletion = 50
	XPForPathCompletion   = 200
)

type AnalyticsService struct {
	AnalyticsRepo   *repository.AnalyticsRepository
	AchievementRepo *repository.AchievementRepository
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, achievementRepo *repository.AchievementRepository) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo:   analyticsRepo,
		AchievementRepo: achievementRepo,
	}
}

// RecordDailyActivity 上报一次当日学习活动。
// 用户的分析记录在首次上报时惰性创建，提交后即持久化。
func (s *AnalyticsService) RecordDailyActivity(userID uint, input model.DailyActivityInput) (*model.ProgressAnalytics, error) {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}

	analytics.RecordActivity(input, time.Now())

	if err := s.AnalyticsRepo.Save(analytics); err != nil {
		return nil, err
	}
	monitoring.ActivityReportCounter.Inc()
	return analytics, nil
}

// GetOverallStats 获取用户的总体统计，首次访问时惰性创建记录
func (s *AnalyticsService) GetOverallStats(userID uint) (*model.ProgressAnalytics, error) {
	return s.AnalyticsRepo.FindOrCreate(userID)
}

// GetWeeklySummary 按需计算指定一周（weekStart 起 7 天）的汇总
func (s *AnalyticsService) GetWeeklySummary(userID uint, weekStart time.Time) (*model.WeeklySummary, error) {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}
	summary := analytics.ComputeWeeklySummary(weekStart)
	return &summary, nil
}

// GetMonthlySummary 按需计算指定自然月的汇总
func (s *AnalyticsService) GetMonthlySummary(userID uint, year int, month time.Month) (*model.MonthlySummary, error) {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}
	summary := analytics.ComputeMonthlySummary(year, month)
	return &summary, nil
}

// LevelUpResult 经验值变更的结果
type LevelUpResult struct {
	LeveledUp        bool `json:"leveledUp"`
	Level            int  `json:"level"`
	ExperiencePoints int  `json:"experiencePoints"`
}

// AddExperiencePoints 增加经验值并重算等级
func (s *AnalyticsService) AddExperiencePoints(userID uint, points int) (*LevelUpResult, error) {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}

	leveledUp, level := analytics.AddExperience(points)
	if err := s.AnalyticsRepo.Save(analytics); err != nil {
		return nil, err
	}

	return &LevelUpResult{
		LeveledUp:        leveledUp,
		Level:            level,
		ExperiencePoints: analytics.ExperiencePoints,
	}, nil
}

// GenerateInsights 生成学习观察。用户还没有分析记录时返回空列表，
// 这个只读操作不会创建记录。
func (s *AnalyticsService) GenerateInsights(userID uint) ([]model.Insight, error) {
	analytics, err := s.AnalyticsRepo.FindByUserID(userID)
	if err == gorm.ErrRecordNotFound {
		return []model.Insight{}, nil
	}
	if err != nil {
		return nil, err
	}
	return analytics.GenerateInsights(), nil
}

// AwardAchievement 记录一个成就：落库成就行，追加到当日活动并发放经验
func (s *AnalyticsService) AwardAchievement(userID uint, title, icon string, xp int) (*model.Achievement, error) {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	achievement := &model.Achievement{
		UserID:   userID,
		Title:    title,
		Icon:     icon,
		EarnedXP: xp,
		EarnedAt: now,
	}
	if err := s.AchievementRepo.Create(achievement); err != nil {
		return nil, err
	}

	analytics.AwardAchievement(title, now)
	if xp != 0 {
		analytics.AddExperience(xp)
	}
	if err := s.AnalyticsRepo.Save(analytics); err != nil {
		return nil, err
	}
	return achievement, nil
}

// RecordCourseCompletion 课程完成后的统计与奖励（由进度更新的调用方触发）
func (s *AnalyticsService) RecordCourseCompletion(userID uint) error {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return err
	}
	analytics.CompletedCourses++
	analytics.AddExperience(XPForCourseCompletion)
	return s.AnalyticsRepo.Save(analytics)
}

// RecordPathCompletion 路径完成后的统计与奖励
func (s *AnalyticsService) RecordPathCompletion(userID uint) error {
	analytics, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return err
	}
	analytics.CompletedPaths++
	analytics.AddExperience(XPForPathCompletion)
	return s.AnalyticsRepo.Save(analytics)
}

// GetAchievements 用户的成就列表
func (s *AnalyticsService) GetAchievements(userID uint) ([]model.Achievement, error) {
	return s.AchievementRepo.FindByUser(userID)
}
