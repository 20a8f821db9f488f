package router

import (
	"mehber/internal/handlers"
	"mehber/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	questionHandler := handlers.NewQuestionHandler()
	commentHandler := handlers.NewCommentHandler()
	likeHandler := handlers.NewLikeHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler()
	adminHandler := handlers.NewAdminHandler()
	seoHandler := handlers.NewSEOHandler()

	// Public routes
	r.GET("/", questionHandler.ListRecent)              // front page, recently published
	r.GET("/active", questionHandler.ListActive)        // most active discussions
	r.GET("/search", questionHandler.Search)            // search published questions
	r.GET("/q/:qid", questionHandler.Detail)            // question detail with answers and threads
	r.GET("/c/:name", questionHandler.ListByCategory)   // questions in one category
	r.GET("/categories", questionHandler.ListCategoriesPage)
	r.GET("/u/:id", userHandler.Profile) // public member page

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/activate", authHandler.ShowActivate)
	r.POST("/activate", authHandler.Activate)
	r.GET("/forgot-password", authHandler.ShowForgotPassword)
	r.POST("/forgot-password", authHandler.ForgotPassword)
	r.GET("/reset-password", authHandler.ShowResetPassword)
	r.POST("/reset-password", authHandler.ResetPassword)
	r.GET("/captcha/refresh", authHandler.RefreshCaptcha)

	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/ask", questionHandler.ShowAsk)
		authorized.POST("/ask", questionHandler.Ask)
		authorized.DELETE("/q/:qid", questionHandler.Delete)

		authorized.POST("/q/:qid/comment", commentHandler.CreateOnQuestion)
		authorized.POST("/a/:id/comment", commentHandler.CreateOnAnswer)
		authorized.DELETE("/comment/:id", commentHandler.Delete)

		authorized.POST("/like/:type/:id", likeHandler.Toggle)
		authorized.POST("/report", likeHandler.Report)

		authorized.GET("/dashboard", userHandler.Dashboard)
		authorized.GET("/settings", userHandler.ShowSettings)
		authorized.POST("/settings", userHandler.UpdateSettings)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	// Moderation routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", adminHandler.Dashboard)
		admin.GET("/q/:qid/answer", adminHandler.ShowAnswer)
		admin.POST("/q/:qid/answer", adminHandler.Answer)
		admin.POST("/q/:qid/reject", adminHandler.Reject)
		admin.POST("/users/:id/punish", adminHandler.PunishUser)
		admin.POST("/users/:id/pardon", adminHandler.PardonUser)
		admin.POST("/reports/:id/resolve", adminHandler.ResolveReport)
		admin.POST("/categories", adminHandler.CreateCategory)
	}
}
