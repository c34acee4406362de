package model

import (
	"fmt"
	"time"
)

type InsightPriority string

const (
	InsightPriorityLow    InsightPriority = "low"
	InsightPriorityMedium InsightPriority = "medium"
	InsightPriorityHigh   InsightPriority = "high"
)

// Insight 针对近期学习行为生成的文字观察
type Insight struct {
	Type     string          `json:"type"` // consistency, productivity, achievement
	Priority InsightPriority `json:"priority"`
	Message  string          `json:"message"`
}

// WeeklySummary 按周汇总的学习数据，按需计算，不落库
type WeeklySummary struct {
	WeekStart          time.Time `json:"weekStart"`
	WeekEnd            time.Time `json:"weekEnd"`
	TotalStudyTime     int       `json:"totalStudyTime"` // 分钟
	AverageDailyTime   int       `json:"averageDailyTime"`
	CoursesAccessed    int       `json:"coursesAccessed"`
	AchievementsEarned int       `json:"achievementsEarned"`
	MostActiveDay      string    `json:"mostActiveDay"`
}

// MonthlySummary 按自然月汇总的学习数据
type MonthlySummary struct {
	Month              string `json:"month"` // 2006-01
	TotalStudyTime     int    `json:"totalStudyTime"`
	AverageDailyTime   int    `json:"averageDailyTime"`
	ActiveDays         int    `json:"activeDays"`
	CoursesAccessed    int    `json:"coursesAccessed"`
	AchievementsEarned int    `json:"achievementsEarned"`
}

// insightWindow 生成观察时回看的最近记录条数
const insightWindow = 30

// ComputeWeeklySummary 汇总 [weekStart, weekStart+6天] 闭区间内的活动。
// 平均时长按有学习记录的天数计，跨天访问的课程不去重；
// 最活跃的星期按累计学习时长取最大，平局保留先出现的那天。
func (a *ProgressAnalytics) ComputeWeeklySummary(weekStart time.Time) WeeklySummary {
	start := StartOfDay(weekStart)
	end := start.AddDate(0, 0, 7)

	summary := WeeklySummary{
		WeekStart: start,
		WeekEnd:   end.Add(-time.Second),
	}

	dayTotals := make(map[string]int)
	var dayOrder []string
	activeDays := 0

	for i := range a.DailyActivity {
		record := &a.DailyActivity[i]
		if record.Date.Before(start) || !record.Date.Before(end) {
			continue
		}

		summary.TotalStudyTime += record.StudyTime
		summary.CoursesAccessed += len(record.CoursesAccessed)
		summary.AchievementsEarned += len(record.Achievements)

		if record.StudyTime > 0 {
			activeDays++
		}

		day := record.Date.Weekday().String()
		if _, seen := dayTotals[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		dayTotals[day] += record.StudyTime
	}

	if activeDays > 0 {
		summary.AverageDailyTime = summary.TotalStudyTime / activeDays
	}

	summary.MostActiveDay = "None"
	best := 0
	for _, day := range dayOrder {
		if dayTotals[day] > best {
			best = dayTotals[day]
			summary.MostActiveDay = day
		}
	}
	return summary
}

// ComputeMonthlySummary 汇总指定自然月内的活动
func (a *ProgressAnalytics) ComputeMonthlySummary(year int, month time.Month) MonthlySummary {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	summary := MonthlySummary{
		Month: start.Format("2006-01"),
	}

	for i := range a.DailyActivity {
		record := &a.DailyActivity[i]
		if record.Date.Before(start) || !record.Date.Before(end) {
			continue
		}

		summary.TotalStudyTime += record.StudyTime
		summary.CoursesAccessed += len(record.CoursesAccessed)
		summary.AchievementsEarned += len(record.Achievements)
		if record.StudyTime > 0 {
			summary.ActiveDays++
		}
	}

	if summary.ActiveDays > 0 {
		summary.AverageDailyTime = summary.TotalStudyTime / summary.ActiveDays
	}
	return summary
}

// GenerateInsights 基于最近 30 条日活动记录生成观察，
// 依次为：学习频率（中）、单日时长（低）、连续天数（高）。
func (a *ProgressAnalytics) GenerateInsights() []Insight {
	records := a.DailyActivity
	if len(records) > insightWindow {
		records = records[len(records)-insightWindow:]
	}

	activeDays := 0
	totalTime := 0
	for i := range records {
		if records[i].StudyTime > 0 {
			activeDays++
			totalTime += records[i].StudyTime
		}
	}

	insights := []Insight{}

	if activeDays < 10 {
		insights = append(insights, Insight{
			Type:     "consistency",
			Priority: InsightPriorityMedium,
			Message:  "最近30天内学习天数较少，建议每天安排固定的学习时间以养成习惯。",
		})
	}

	divisor := activeDays
	if divisor < 1 {
		divisor = 1
	}
	if totalTime/divisor < 25 {
		insights = append(insights, Insight{
			Type:     "productivity",
			Priority: InsightPriorityLow,
			Message:  "平均每天学习时长不足25分钟，尝试把单次学习延长到25分钟以上效果更好。",
		})
	}

	if a.CurrentStreak >= 7 {
		insights = append(insights, Insight{
			Type:     "achievement",
			Priority: InsightPriorityHigh,
			Message:  fmt.Sprintf("太棒了！你已经连续学习 %d 天，继续保持！", a.CurrentStreak),
		})
	}

	return insights
}
