package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 浏览类：可选认证，允许游客访问
		public.GET("/paths", middleware.TryAuthMiddleware(cfg), c.learningPath.ListPaths)
		public.GET("/paths/popular", c.learningPath.ListPopular)
		public.GET("/paths/:id", middleware.TryAuthMiddleware(cfg), c.learningPath.GetPath)
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.ListCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.GetCourse)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		// 学习路径：报名与进度
		authGroup.GET("/paths/my", c.learningPath.ListMyPaths)
		authGroup.POST("/paths/:id/enroll", c.learningPath.Enroll)
		authGroup.PUT("/paths/:id/progress", c.learningPath.UpdateProgress)
		authGroup.GET("/paths/:id/progress", c.learningPath.GetProgress)
		authGroup.POST("/paths/:id/rate", c.learningPath.Rate)

		// 学习分析
		analytics := authGroup.Group("/analytics")
		{
			analytics.POST("/activity", c.analytics.RecordActivity)
			analytics.GET("/stats", c.analytics.GetOverallStats)
			analytics.GET("/weekly", c.analytics.GetWeeklySummary)
			analytics.GET("/monthly", c.analytics.GetMonthlySummary)
			analytics.POST("/experience", c.analytics.AddExperience)
			analytics.GET("/insights", c.analytics.GetInsights)
			analytics.GET("/achievements", c.analytics.GetAchievements)
		}

		// 讲师相关接口
		instructor := authGroup.Group("/")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/paths", c.learningPath.CreatePath)
			instructor.PUT("/paths/:id", c.learningPath.UpdatePath)
			instructor.POST("/paths/:id/publish", c.learningPath.Publish)
			instructor.DELETE("/paths/:id", c.learningPath.Deactivate)
			instructor.POST("/courses", c.course.CreateCourse)
			instructor.POST("/analytics/achievements", c.analytics.AwardAchievement)
		}
	}

	// 3. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.GetUsers)
		admin.PATCH("/users/:id/disable", c.user.DisableUser)
		admin.POST("/users/:id/reset-password", c.user.ResetPassword)
	}
}
