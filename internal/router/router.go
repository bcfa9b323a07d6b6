package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/handler"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret string, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(log))

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("newsdesk_session", store))

	api := handler.NewAPI(gdb, log)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
	}

	// 所有业务接口都要求上游身份，核心逻辑信任注入的 actor
	authorized := r.Group("/api")
	authorized.Use(handler.ActorRequired())
	{
		authorized.POST("/content", api.CreateContent)
		authorized.PUT("/content/:id", api.UpdateContent)
		authorized.GET("/content/:id", api.GetContent)
		authorized.POST("/content/:id/autosave", api.AutosaveContent)
		authorized.POST("/content/:id/review", api.ReviewContent)
		authorized.GET("/content/:id/history", api.ContentHistory)
		authorized.POST("/content/:id/terms", api.SyncContentTerms)

		authorized.GET("/my/pending", api.OwnPending)

		authorized.POST("/review/bulk", api.BulkReview)
		authorized.GET("/review/queue", api.ReviewQueue)

		authorized.GET("/terms", api.ListTerms)
	}

	return r
}
