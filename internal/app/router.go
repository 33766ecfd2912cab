package app

import (
	"skillbloom_backend/docs"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/middleware"
	"skillbloom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/skills", c.skill.List)
		public.GET("/skills/:name/teachers", c.skill.Teachers)
		public.POST("/find_match", c.match.FindMatch)
		public.GET("/leaderboard", c.user.Leaderboard)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		authGroup.POST("/sessions", c.session.Book)
		authGroup.GET("/sessions", c.session.List)
		authGroup.POST("/complete-session/:id", c.session.Complete)
		authGroup.POST("/rate-teacher/:id", c.session.Rate)

		authGroup.POST("/send_sms", c.notification.SendSMS)

		authGroup.POST("/transfer_xp", c.user.TransferXP)
		authGroup.GET("/xp/transactions", c.user.ListTransactions)
		authGroup.GET("/badges", c.badge.ListMine)
	}
}
