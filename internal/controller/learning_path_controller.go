package controller

import (
	"errors"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"learnhub_backend/pkg/logger"
)

type LearningPathController struct {
	PathService      *service.LearningPathService
	AnalyticsService *service.AnalyticsService
}

func NewLearningPathController(pathService *service.LearningPathService, analyticsService *service.AnalyticsService) *LearningPathController {
	return &LearningPathController{
		PathService:      pathService,
		AnalyticsService: analyticsService,
	}
}

// CreatePathRequest 创建学习路径请求
// swagger:model CreatePathRequest
type CreatePathRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Category       string `json:"category" binding:"required"`
	Difficulty     string `json:"difficulty" binding:"required"`
	EstimatedHours int    `json:"estimatedHours"`
	CourseIDs      []uint `json:"courseIds"`
}

// CreatePath godoc
// @Summary 创建学习路径
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreatePathRequest true "路径信息"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response "分类或难度不合法"
// @Router /api/paths [post]
func (c *LearningPathController) CreatePath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreatePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.CreatePath(claims.UserID, service.CreatePathInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		EstimatedHours: req.EstimatedHours,
		CourseIDs:      req.CourseIDs,
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidCategory) || errors.Is(err, model.ErrInvalidDifficulty) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, path)
}

// ListPaths godoc
// @Summary 浏览学习路径
// @Tags 学习路径
// @Produce  json
// @Param   category query string false "分类"
// @Param   difficulty query string false "难度"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/paths [get]
func (c *LearningPathController) ListPaths(ctx *gin.Context) {
	page := util.ParseIntDefault(ctx.Query("page"), 1)
	limit := util.ParseIntDefault(ctx.Query("limit"), 20)

	paths, total, err := c.PathService.ListPaths(ctx.Query("category"), ctx.Query("difficulty"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  paths,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPath godoc
// @Summary 学习路径详情
// @Tags 学习路径
// @Produce  json
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id} [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	pathID := util.MustParseUint(ctx.Param("id"))

	path, err := c.PathService.GetPath(pathID)
	if err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"path":             path,
		"completedCourses": path.CompletedCourseCount(),
		"enrolledCount":    path.ActiveEnrollmentCount(),
	})
}

// UpdatePathRequest 编辑学习路径请求，缺省字段不修改
type UpdatePathRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	Difficulty     *string `json:"difficulty"`
	EstimatedHours *int    `json:"estimatedHours"`
}

// UpdatePath godoc
// @Summary 编辑学习路径
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Param   body body UpdatePathRequest true "修改字段"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response "分类或难度不合法"
// @Router /api/paths/{id} [put]
func (c *LearningPathController) UpdatePath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	var req UpdatePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.UpdatePath(pathID, claims.UserID, claims.Role == model.Admin, service.UpdatePathInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidCategory) || errors.Is(err, model.ErrInvalidDifficulty) {
			util.BadRequest(ctx, err.Error())
		} else {
			c.writePathError(ctx, err)
		}
		return
	}

	util.Success(ctx, path)
}

// Publish godoc
// @Summary 发布学习路径
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response
// @Router /api/paths/{id}/publish [post]
func (c *LearningPathController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	err := c.PathService.Publish(pathID, claims.UserID, claims.Role == model.Admin)
	if err != nil {
		c.writePathError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Deactivate godoc
// @Summary 下线学习路径（软删除）
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response
// @Router /api/paths/{id} [delete]
func (c *LearningPathController) Deactivate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	err := c.PathService.Deactivate(ctx.Request.Context(), pathID, claims.UserID, claims.Role == model.Admin)
	if err != nil {
		c.writePathError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Enroll godoc
// @Summary 报名学习路径
// @Description 幂等操作：重复报名不产生新记录，重新激活不重复计数
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id}/enroll [post]
func (c *LearningPathController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	enrollment, err := c.PathService.Enroll(ctx.Request.Context(), pathID, claims.UserID)
	if err != nil {
		c.writePathError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// UpdateProgressRequest 进度更新请求
// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	CourseIndex int `json:"courseIndex"`
	Progress    int `json:"progress"`
}

// UpdateProgress godoc
// @Summary 更新课程进度
// @Description 设置路径内某门课程的进度并重算总进度，完成时发放经验奖励
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Param   body body UpdateProgressRequest true "课程序号与进度值"
// @Success 200 {object} util.Response{data=service.ProgressUpdateResult}
// @Failure 400 {object} util.Response "课程序号或进度值不合法"
// @Failure 404 {object} util.Response "路径不存在或未报名"
// @Router /api/paths/{id}/progress [put]
func (c *LearningPathController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PathService.UpdateProgress(pathID, claims.UserID, req.CourseIndex, req.Progress)
	if err != nil {
		c.writePathError(ctx, err)
		return
	}

	// 完成课程/路径时更新分析统计并发放经验
	if result.CourseCompleted {
		if err := c.AnalyticsService.RecordCourseCompletion(claims.UserID); err != nil {
			logger.Log.Error("record course completion failed", zap.Uint("userId", claims.UserID), zap.Error(err))
		}
	}
	if result.PathCompleted {
		if err := c.AnalyticsService.RecordPathCompletion(claims.UserID); err != nil {
			logger.Log.Error("record path completion failed", zap.Uint("userId", claims.UserID), zap.Error(err))
		}
	}

	util.Success(ctx, result)
}

// GetProgress godoc
// @Summary 查询用户在路径上的总进度
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/paths/{id}/progress [get]
func (c *LearningPathController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	progress, err := c.PathService.ComputeUserProgress(pathID, claims.UserID)
	if err != nil {
		c.writePathError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"progress": progress})
}

// ListMyPaths godoc
// @Summary 我报名的学习路径
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   status query string false "all / active / completed"
// @Success 200 {object} util.Response{data=[]model.LearningPath}
// @Router /api/paths/my [get]
func (c *LearningPathController) ListMyPaths(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	status := ctx.DefaultQuery("status", "all")
	paths, err := c.PathService.ListUserPaths(claims.UserID, status)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, paths)
}

// ListPopular godoc
// @Summary 热门学习路径
// @Tags 学习路径
// @Produce  json
// @Param   limit query int false "返回条数，默认10"
// @Success 200 {object} util.Response{data=[]model.LearningPath}
// @Router /api/paths/popular [get]
func (c *LearningPathController) ListPopular(ctx *gin.Context) {
	limit := util.ParseIntDefault(ctx.Query("limit"), 10)

	paths, err := c.PathService.ListPopularPaths(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, paths)
}

// RatePathRequest 评分请求
type RatePathRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Rate godoc
// @Summary 给学习路径评分
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Param   body body RatePathRequest true "评分（1-5）"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response "评分不合法或已评分"
// @Router /api/paths/{id}/rate [post]
func (c *LearningPathController) Rate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pathID := util.MustParseUint(ctx.Param("id"))

	var req RatePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.Rate(ctx.Request.Context(), pathID, claims.UserID, req.Rating)
	if err != nil {
		if errors.Is(err, model.ErrInvalidRating) || errors.Is(err, util.ErrAlreadyRated) {
			util.BadRequest(ctx, err.Error())
		} else {
			c.writePathError(ctx, err)
		}
		return
	}

	util.Success(ctx, path)
}

// writePathError 将路径域错误映射为对应的HTTP状态码
func (c *LearningPathController) writePathError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPathNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, model.ErrNotEnrolled):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, model.ErrInvalidCourseIndex), errors.Is(err, model.ErrInvalidProgressRange):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
