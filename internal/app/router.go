package app

import (
	"course_market_backend/docs"
	"course_market_backend/internal/config"
	"course_market_backend/internal/middleware"
	"course_market_backend/internal/model"
	"course_market_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/course", c.course.Browse)
		public.GET("/course/:id", c.course.Get)
		public.GET("/category", c.admin.ListCategories)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/user/me", c.user.Me)
		authGroup.PUT("/user/me", c.user.UpdateProfile)

		// 视频状态推送通道
		authGroup.GET("/ws/video-status", c.ws.VideoStatus)

		// 学员：报名与退款
		authGroup.POST("/enrollment", c.enrollment.Enroll)
		authGroup.GET("/enrollment/mine", c.enrollment.ListMine)
		authGroup.POST("/enrollment/refund", c.enrollment.RequestRefund)
		authGroup.GET("/enrollment/refund/mine", c.enrollment.ListMyRefunds)

		// 讲师：课程结构管理
		instructor := authGroup.Group("/")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/course", c.course.Create)
			instructor.GET("/course/mine", c.course.ListMine)
			instructor.PUT("/course/:id", c.course.Update)
			instructor.POST("/course/:id/submit", c.course.Submit)
			instructor.DELETE("/course/:id", c.course.Delete)

			instructor.POST("/section", c.section.Create)
			instructor.PUT("/section/reorder", c.section.Reorder)
			instructor.PUT("/section/:id", c.section.Rename)
			instructor.DELETE("/section/:id", c.section.Delete)

			instructor.POST("/lesson", c.lesson.Create)
			instructor.PUT("/lesson/reorder", c.lesson.Reorder)
			instructor.GET("/lesson/:id", c.lesson.Get)
			instructor.PUT("/lesson/:id", c.lesson.Rename)
			instructor.PUT("/lesson/:id/content-type", c.lesson.SwitchContentType)
			instructor.DELETE("/lesson/:id", c.lesson.Delete)

			// 视频上传生命周期
			instructor.POST("/video/upload-url", c.video.CreateUpload)
			instructor.POST("/video/upload/:uploadId/chunk", c.video.UploadChunk)
			instructor.GET("/video/upload/:uploadId/progress", c.video.GetProgress)
			instructor.DELETE("/video/cancel-upload/:uploadId", c.video.CancelUpload)
			instructor.DELETE("/video/:videoId", c.video.DeleteVideo)

			instructor.POST("/material/upload", c.material.Upload)
			instructor.DELETE("/material/delete/:materialId", c.material.Delete)

			instructor.POST("/quiz", c.quiz.Create)
			instructor.GET("/quiz/:id", c.quiz.Get)
			instructor.PUT("/quiz/:id", c.quiz.Update)
			instructor.DELETE("/quiz/:id", c.quiz.Delete)
		}
	}

	// 管理员路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/course/pending", c.admin.ListPendingCourses)
		admin.POST("/course/:id/review", c.admin.ReviewCourse)

		admin.GET("/refund/pending", c.admin.ListPendingRefunds)
		admin.POST("/refund/:id/review", c.admin.ReviewRefund)

		admin.GET("/user", c.admin.ListUsers)
		admin.PUT("/user/:id/ban", c.admin.SetUserBanned)

		admin.POST("/category", c.admin.CreateCategory)
		admin.DELETE("/category/:id", c.admin.DeleteCategory)

		admin.POST("/voucher", c.admin.CreateVoucher)
		admin.GET("/voucher", c.admin.ListVouchers)
		admin.PUT("/voucher/:id/enabled", c.admin.SetVoucherEnabled)
		admin.DELETE("/voucher/:id", c.admin.DeleteVoucher)
	}
}
