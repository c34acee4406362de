package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newTestAnalytics(userID uint) *ProgressAnalytics {
	return &ProgressAnalytics{UserID: userID, Level: 1}
}

func TestRecordActivityConsecutiveDaysExtendStreak(t *testing.T) {
	a := newTestAnalytics(1)
	day1 := time.Date(2026, 8, 10, 20, 0, 0, 0, time.Local)

	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(30)}, day1)
	assert.Equal(t, 1, a.CurrentStreak)

	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(45)}, day1.AddDate(0, 0, 1))
	assert.Equal(t, 2, a.CurrentStreak)
	assert.Equal(t, 2, a.LongestStreak)
	assert.Equal(t, 75, a.TotalStudyTime)

	// 隔了一天后只报一条零时长记录，连续天数归零但最长纪录保留
	a.RecordActivity(DailyActivityInput{}, day1.AddDate(0, 0, 3))
	assert.Equal(t, 0, a.CurrentStreak)
	assert.Equal(t, 2, a.LongestStreak)
}

func TestRecordActivityStreakResetsAfterGap(t *testing.T) {
	a := newTestAnalytics(1)
	day1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.Local)

	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(20)}, day1)
	// 中断两天后再学习，应从 1 重新累计
	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(20)}, day1.AddDate(0, 0, 3))
	assert.Equal(t, 1, a.CurrentStreak)
}

func TestRecordActivityMergesSameDayLastWriteWins(t *testing.T) {
	a := newTestAnalytics(2)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.Local)

	a.RecordActivity(DailyActivityInput{
		StudyTime:       intPtr(30),
		CoursesAccessed: []CourseAccess{{CourseID: 1, TimeSpent: 30}},
	}, now)
	a.RecordActivity(DailyActivityInput{
		StudyTime:    intPtr(50),
		Achievements: []string{"早起学习者"},
	}, now.Add(4*time.Hour))

	require.Len(t, a.DailyActivity, 1, "同一天只应有一条记录")
	record := a.ActivityOn(StartOfDay(now))
	require.NotNil(t, record)
	assert.Equal(t, 50, record.StudyTime)
	// 未提供的字段保留上一次的值
	assert.Len(t, record.CoursesAccessed, 1)
	assert.Equal(t, []string{"早起学习者"}, []string(record.Achievements))
	assert.Equal(t, 50, a.TotalStudyTime)
}

func TestAddExperienceLevels(t *testing.T) {
	a := newTestAnalytics(3)

	leveledUp, level := a.AddExperience(50)
	assert.False(t, leveledUp)
	assert.Equal(t, 1, level)

	// 50 + 200 = 250 -> floor(250/100)+1 = 3
	leveledUp, level = a.AddExperience(200)
	assert.True(t, leveledUp)
	assert.Equal(t, 3, level)
	assert.Equal(t, 250, a.ExperiencePoints)
}

func TestAwardAchievementDoesNotTouchStreak(t *testing.T) {
	a := newTestAnalytics(4)
	now := time.Date(2026, 8, 20, 16, 0, 0, 0, time.Local)
	a.CurrentStreak = 3
	a.LongestStreak = 5

	a.AwardAchievement("百题斩", now)

	assert.Equal(t, 3, a.CurrentStreak)
	assert.Equal(t, 5, a.LongestStreak)
	record := a.ActivityOn(StartOfDay(now))
	require.NotNil(t, record)
	assert.Contains(t, []string(record.Achievements), "百题斩")
}

func TestComputeWeeklySummary(t *testing.T) {
	a := newTestAnalytics(5)
	monday := time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local)

	a.RecordActivity(DailyActivityInput{
		StudyTime:       intPtr(120),
		CoursesAccessed: []CourseAccess{{CourseID: 1, TimeSpent: 120}},
	}, monday)
	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(60)}, monday.AddDate(0, 0, 2))
	a.RecordActivity(DailyActivityInput{
		StudyTime:    intPtr(120),
		Achievements: []string{"周末冲刺"},
	}, monday.AddDate(0, 0, 5))
	// 下一周的记录不应计入
	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(999)}, monday.AddDate(0, 0, 7))

	summary := a.ComputeWeeklySummary(monday)

	assert.Equal(t, 300, summary.TotalStudyTime)
	assert.Equal(t, 100, summary.AverageDailyTime)
	assert.Equal(t, 1, summary.CoursesAccessed)
	assert.Equal(t, 1, summary.AchievementsEarned)
	// 周一与周六都是 120 分钟，平局保留先出现的周一
	assert.Equal(t, "Monday", summary.MostActiveDay)
}

func TestComputeWeeklySummaryEmptyWeek(t *testing.T) {
	a := newTestAnalytics(6)
	summary := a.ComputeWeeklySummary(time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local))

	assert.Equal(t, 0, summary.TotalStudyTime)
	assert.Equal(t, 0, summary.AverageDailyTime)
	assert.Equal(t, "None", summary.MostActiveDay)
}

func TestComputeMonthlySummary(t *testing.T) {
	a := newTestAnalytics(7)
	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(40)}, time.Date(2026, 7, 5, 10, 0, 0, 0, time.Local))
	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(80)}, time.Date(2026, 7, 20, 10, 0, 0, 0, time.Local))
	a.RecordActivity(DailyActivityInput{StudyTime: intPtr(500)}, time.Date(2026, 8, 1, 10, 0, 0, 0, time.Local))

	summary := a.ComputeMonthlySummary(2026, time.July)

	assert.Equal(t, "2026-07", summary.Month)
	assert.Equal(t, 120, summary.TotalStudyTime)
	assert.Equal(t, 2, summary.ActiveDays)
	assert.Equal(t, 60, summary.AverageDailyTime)
}

func TestGenerateInsights(t *testing.T) {
	a := newTestAnalytics(8)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)

	// 5 个学习日、每天 10 分钟：频率不足且时长偏低
	for i := 0; i < 5; i++ {
		a.RecordActivity(DailyActivityInput{StudyTime: intPtr(10)}, base.AddDate(0, 0, i*2))
	}

	insights := a.GenerateInsights()
	require.Len(t, insights, 2)
	assert.Equal(t, "consistency", insights[0].Type)
	assert.Equal(t, InsightPriorityMedium, insights[0].Priority)
	assert.Equal(t, "productivity", insights[1].Type)
	assert.Equal(t, InsightPriorityLow, insights[1].Priority)
}

func TestGenerateInsightsStreakAchievement(t *testing.T) {
	a := newTestAnalytics(9)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)

	for i := 0; i < 10; i++ {
		a.RecordActivity(DailyActivityInput{StudyTime: intPtr(60)}, base.AddDate(0, 0, i))
	}
	require.Equal(t, 10, a.CurrentStreak)

	insights := a.GenerateInsights()
	require.NotEmpty(t, insights)
	last := insights[len(insights)-1]
	assert.Equal(t, "achievement", last.Type)
	assert.Equal(t, InsightPriorityHigh, last.Priority)
	assert.Contains(t, last.Message, "10")
}
