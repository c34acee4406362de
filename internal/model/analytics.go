package model

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// ProgressAnalytics 每个用户一条的学习分析聚合，
// 总体统计全部由 DailyActivity 与显式的加分调用推导。
// swagger:model ProgressAnalytics
type ProgressAnalytics struct {
	BaseModel
	UserID           uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	TotalStudyTime   int        `gorm:"default:0" json:"totalStudyTime"` // 分钟
	CompletedCourses int        `gorm:"default:0" json:"completedCourses"`
	CompletedPaths   int        `gorm:"default:0" json:"completedPaths"`
	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak    int        `gorm:"default:0" json:"longestStreak"`
	ExperiencePoints int        `gorm:"default:0" json:"experiencePoints"`
	Level            int        `gorm:"default:1" json:"level"`
	LastActiveDate   *time.Time `json:"lastActiveDate,omitempty"`

	DailyActivity []DailyActivity `gorm:"foreignKey:AnalyticsID" json:"dailyActivity"`
}

func (ProgressAnalytics) TableName() string {
	return "progress_analytics"
}

// CourseAccess 单日内某门课程的访问时长
type CourseAccess struct {
	CourseID  uint `json:"courseId"`
	TimeSpent int  `json:"timeSpent"` // 分钟
}

// ResourceViews 单日内按类型统计的资源浏览次数
type ResourceViews struct {
	Videos    int `json:"videos"`
	Articles  int `json:"articles"`
	Quizzes   int `json:"quizzes"`
	Exercises int `json:"exercises"`
}

// DailyActivity 每个自然日至多一条的活动记录
// swagger:model DailyActivity
type DailyActivity struct {
	BaseModel
	AnalyticsID     uint                               `gorm:"uniqueIndex:idx_analytics_date;type:bigint unsigned;not null" json:"-"`
	Date            time.Time                          `gorm:"uniqueIndex:idx_analytics_date;not null" json:"date"`
	StudyTime       int                                `gorm:"default:0" json:"studyTime"` // 分钟
	CoursesAccessed datatypes.JSONSlice[CourseAccess]  `gorm:"type:json" json:"coursesAccessed"`
	ResourcesViewed datatypes.JSONType[ResourceViews]  `gorm:"type:json" json:"resourcesViewed"`
	Achievements    datatypes.JSONSlice[string]        `gorm:"type:json" json:"achievements"`
	LoginTime       *time.Time                         `json:"loginTime,omitempty"`
	LogoutTime      *time.Time                         `json:"logoutTime,omitempty"`
}

func (DailyActivity) TableName() string {
	return "daily_activities"
}

// DailyActivityInput 单次活动上报。nil 字段表示未提供，
// 提供的字段按最后写入覆盖当日记录。
type DailyActivityInput struct {
	StudyTime       *int           `json:"studyTime"`
	CoursesAccessed []CourseAccess `json:"coursesAccessed"`
	ResourcesViewed *ResourceViews `json:"resourcesViewed"`
	Achievements    []string       `json:"achievements"`
	LoginTime       *time.Time     `json:"loginTime"`
	LogoutTime      *time.Time     `json:"logoutTime"`
}

// ActivityOn 返回指定自然日的记录，date 必须已对齐到零点
func (a *ProgressAnalytics) ActivityOn(date time.Time) *DailyActivity {
	for i := range a.DailyActivity {
		if a.DailyActivity[i].Date.Equal(date) {
			return &a.DailyActivity[i]
		}
	}
	return nil
}

// RecordActivity 合并一次活动上报到当日记录并重算连续学习天数
func (a *ProgressAnalytics) RecordActivity(input DailyActivityInput, now time.Time) *DailyActivity {
	today := StartOfDay(now)

	record := a.ActivityOn(today)
	if record == nil {
		a.DailyActivity = append(a.DailyActivity, DailyActivity{
			AnalyticsID: a.ID,
			Date:        today,
		})
		record = &a.DailyActivity[len(a.DailyActivity)-1]
	}

	if input.StudyTime != nil {
		record.StudyTime = *input.StudyTime
	}
	if input.CoursesAccessed != nil {
		record.CoursesAccessed = datatypes.NewJSONSlice(input.CoursesAccessed)
	}
	if input.ResourcesViewed != nil {
		record.ResourcesViewed = datatypes.NewJSONType(*input.ResourcesViewed)
	}
	if input.Achievements != nil {
		record.Achievements = datatypes.NewJSONSlice(input.Achievements)
	}
	if input.LoginTime != nil {
		record.LoginTime = input.LoginTime
	}
	if input.LogoutTime != nil {
		record.LogoutTime = input.LogoutTime
	}

	a.LastActiveDate = &now
	a.TotalStudyTime = a.totalRecordedStudyTime()
	a.RecomputeStreak(now)
	return record
}

// RecomputeStreak 重算连续学习天数：今天有非零学习时长时，
// 昨天也有则加一，否则重置为 1；今天为零或无记录则归零。
// LongestStreak 单调不减。
func (a *ProgressAnalytics) RecomputeStreak(now time.Time) {
	today := StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	todayRecord := a.ActivityOn(today)
	if todayRecord != nil && todayRecord.StudyTime > 0 {
		yesterdayRecord := a.ActivityOn(yesterday)
		if yesterdayRecord != nil && yesterdayRecord.StudyTime > 0 {
			a.CurrentStreak++
		} else {
			a.CurrentStreak = 1
		}
	} else {
		a.CurrentStreak = 0
	}

	if a.CurrentStreak > a.LongestStreak {
		a.LongestStreak = a.CurrentStreak
	}
}

// AddExperience 增加经验值并重算等级 level = floor(xp/100)+1，
// 返回是否升级及当前等级
func (a *ProgressAnalytics) AddExperience(points int) (bool, int) {
	a.ExperiencePoints += points
	newLevel := int(math.Floor(float64(a.ExperiencePoints)/100)) + 1
	leveledUp := newLevel > a.Level
	a.Level = newLevel
	return leveledUp, a.Level
}

// AwardAchievement 将成就追加到当日记录，不触发连续天数重算
func (a *ProgressAnalytics) AwardAchievement(title string, now time.Time) {
	today := StartOfDay(now)
	record := a.ActivityOn(today)
	if record == nil {
		a.DailyActivity = append(a.DailyActivity, DailyActivity{
			AnalyticsID: a.ID,
			Date:        today,
		})
		record = &a.DailyActivity[len(a.DailyActivity)-1]
	}
	record.Achievements = append(record.Achievements, title)
	a.LastActiveDate = &now
}

func (a *ProgressAnalytics) totalRecordedStudyTime() int {
	total := 0
	for i := range a.DailyActivity {
		total += a.DailyActivity[i].StudyTime
	}
	return total
}
