package app

import (
	"github.com/cdmi123/progress-report/docs"
	"github.com/cdmi123/progress-report/internal/middleware"
	"github.com/cdmi123/progress-report/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 进度表下载链接允许通过查询参数携带令牌
	download := router.Group("/api/v1/pdf/report")
	download.Use(middleware.DownloadAuthMiddleware(a.Services.Auth))
	download.GET("/:studentId/:courseId", c.sheet.Download)

	// 2. 需要授权的路由
	authGroup := router.Group("/api/v1")
	authGroup.Use(middleware.AuthMiddleware(a.Services.Auth))
	{
		authGroup.POST("/auth/logout", c.auth.Logout)

		// 课程/报告/进度表 对员工与学生开放, 范围在服务层校验
		a.registerSharedRoutes(authGroup, c)

		// 学生接口
		a.registerStudentRoutes(authGroup, c)

		// 管理员接口
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api/v1/auth")
	{
		public.POST("/admin/login", c.auth.AdminLogin)
		public.POST("/student/login", c.auth.StudentLogin)
	}
}

func (a *App) registerSharedRoutes(group *gin.RouterGroup, c *controllers) {
	courses := group.Group("/courses")
	{
		courses.GET("", c.course.List)
		courses.GET("/:id", c.course.Get)

		staff := courses.Group("")
		staff.Use(middleware.RequireStaff())
		staff.POST("", c.course.Create)
		staff.PUT("/:id", c.course.Update)
		staff.DELETE("/:id", c.course.Delete)
	}

	reports := group.Group("/reports")
	{
		reports.GET("/details", c.report.Details)
		reports.POST("/update-progress", c.report.UpdateProgress)
		reports.POST("/add-topic", c.report.AddTopic)
		reports.POST("/remove-topic", c.report.RemoveTopic)
	}

	group.POST("/pdf/report/:studentId/:courseId/archive", middleware.RequireStaff(), c.sheet.Archive)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("/student")
	student.Use(middleware.RequireStudent())
	{
		student.GET("/dashboard", c.dashboard.StudentDashboard)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/stats", c.dashboard.Stats)

		students := admin.Group("/students")
		{
			students.POST("", c.student.Create)
			students.GET("", c.student.List)
			students.GET("/export", c.student.Export)
			students.PUT("/:id", c.student.Update)
			students.DELETE("/:id", c.student.Delete)
			students.PATCH("/:id/status", c.student.SetStatus)
		}

		staff := admin.Group("/staff")
		staff.Use(middleware.RequireGlobalStaff())
		{
			staff.POST("", c.staff.Register)
			staff.GET("", c.staff.List)
			staff.PUT("/:id", c.staff.Update)
		}
	}
}
