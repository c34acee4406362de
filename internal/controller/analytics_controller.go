package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// RecordActivity godoc
// @Summary 上报当日学习活动
// @Description 合并提供的字段到当天的活动记录并重算连续学习天数
// @Tags 分析
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.DailyActivityInput true "活动内容，缺省字段不覆盖"
// @Success 200 {object} util.Response{data=model.ProgressAnalytics}
// @Router /api/analytics/activity [post]
func (c *AnalyticsController) RecordActivity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input model.DailyActivityInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	analytics, err := c.AnalyticsService.RecordDailyActivity(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}

// GetOverallStats godoc
// @Summary 总体学习统计
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ProgressAnalytics}
// @Router /api/analytics/stats [get]
func (c *AnalyticsController) GetOverallStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	analytics, err := c.AnalyticsService.GetOverallStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}

// GetWeeklySummary godoc
// @Summary 周学习汇总
// @Description 汇总 week_start 起 7 天内的学习数据（按需计算，不落库）
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   week_start query string false "周起始日期 2006-01-02，缺省为本周一"
// @Success 200 {object} util.Response{data=model.WeeklySummary}
// @Router /api/analytics/weekly [get]
func (c *AnalyticsController) GetWeeklySummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	weekStart := mondayOfCurrentWeek()
	if v := ctx.Query("week_start"); v != "" {
		t, err := time.ParseInLocation(util.DateFormat, v, time.Local)
		if err != nil {
			util.BadRequest(ctx, "week_start 格式应为 2006-01-02")
			return
		}
		weekStart = t
	}

	summary, err := c.AnalyticsService.GetWeeklySummary(claims.UserID, weekStart)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// GetMonthlySummary godoc
// @Summary 月学习汇总
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   month query string false "月份 2006-01，缺省为本月"
// @Success 200 {object} util.Response{data=model.MonthlySummary}
// @Router /api/analytics/monthly [get]
func (c *AnalyticsController) GetMonthlySummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := ctx.Query("month"); v != "" {
		t, err := time.ParseInLocation("2006-01", v, time.Local)
		if err != nil {
			util.BadRequest(ctx, "month 格式应为 2006-01")
			return
		}
		year, month = t.Year(), t.Month()
	}

	summary, err := c.AnalyticsService.GetMonthlySummary(claims.UserID, year, month)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// AddExperienceRequest 加经验请求
type AddExperienceRequest struct {
	Points int `json:"points" binding:"required"`
}

// AddExperience godoc
// @Summary 增加经验值
// @Tags 分析
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddExperienceRequest true "经验值"
// @Success 200 {object} util.Response{data=service.LevelUpResult}
// @Router /api/analytics/experience [post]
func (c *AnalyticsController) AddExperience(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req AddExperienceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalyticsService.AddExperiencePoints(claims.UserID, req.Points)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetInsights godoc
// @Summary 学习观察
// @Description 基于最近30天的活动生成观察，没有分析记录时返回空列表
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Insight}
// @Router /api/analytics/insights [get]
func (c *AnalyticsController) GetInsights(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	insights, err := c.AnalyticsService.GenerateInsights(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, insights)
}

// AwardAchievementRequest 成就发放请求
type AwardAchievementRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Icon   string `json:"icon"`
	XP     int    `json:"xp"`
}

// AwardAchievement godoc
// @Summary 发放成就（教师/管理员）
// @Tags 分析
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AwardAchievementRequest true "成就内容"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Router /api/analytics/achievements [post]
func (c *AnalyticsController) AwardAchievement(ctx *gin.Context) {
	var req AwardAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AnalyticsService.AwardAchievement(req.UserID, req.Title, req.Icon, req.XP)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, achievement)
}

// GetAchievements godoc
// @Summary 我的成就列表
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/analytics/achievements [get]
func (c *AnalyticsController) GetAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	achievements, err := c.AnalyticsService.GetAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// mondayOfCurrentWeek 本周一零点
func mondayOfCurrentWeek() time.Time {
	now := time.Now()
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	day := now.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}
