package controller

import (
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
	Config         *config.Config
}

func NewUserController(userService *service.UserService, storageService *service.StorageService, cfg *config.Config) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
		Config:         cfg,
	}
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Bio      string `json:"bio"`
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "资料字段"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name, req.Language, req.Bio)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedAvatarExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "不支持的图片格式")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	filename := "avatars/" + model.GenerateUUID() + ext
	url, err := c.StorageService.Provider.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

// GetUsers godoc
// @Summary 用户列表（管理员）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Param   role query string false "角色筛选"
// @Param   status query string false "状态筛选 online/offline/disabled"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page := util.ParseIntDefault(ctx.Query("page"), 1)
	limit := util.ParseIntDefault(ctx.Query("limit"), 20)

	filter := service.UserFilter{
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}
	if v := ctx.Query("start_date"); v != "" {
		if t, err := time.Parse(util.DateFormat, v); err == nil {
			filter.StartDate = t
		}
	}
	if v := ctx.Query("end_date"); v != "" {
		if t, err := time.Parse(util.DateFormat, v); err == nil {
			filter.EndDate = t
		}
	}

	users, total, err := c.UserService.GetUsers(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: int64(total),
		Page:  page,
		Limit: limit,
	})
}

// DisableUserRequest 禁用/启用用户请求
type DisableUserRequest struct {
	Disable bool `json:"disable"`
}

// DisableUser godoc
// @Summary 禁用或启用用户（管理员）
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body DisableUserRequest true "禁用标志"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/disable [patch]
func (c *UserController) DisableUser(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	var req DisableUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.DisableUser(userID, req.Disable); err != nil {
		util.NotFound(ctx, "用户不存在")
		return
	}

	util.Success(ctx, nil)
}

// ResetPassword godoc
// @Summary 重置用户密码（管理员）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/users/{id}/reset-password [post]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	tempPassword, err := c.UserService.ResetPassword(userID)
	if err != nil {
		util.NotFound(ctx, "用户不存在")
		return
	}

	util.Success(ctx, gin.H{"tempPassword": tempPassword})
}
