package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/weibaohui/readmegen/config"
	"github.com/weibaohui/readmegen/internal/handler"
)

func Setup(
	cfg *config.Config,
	readmeHandler *handler.ReadmeHandler,
	historyHandler *handler.HistoryHandler,
	feedbackHandler *handler.FeedbackHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	// 生成结果是大段 Markdown 文本，压缩收益明显
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	{
		readme := api.Group("/readme")
		{
			readme.POST("/generate", readmeHandler.Generate)
			readme.POST("/refine", readmeHandler.Refine)
			readme.GET("/sections", readmeHandler.Sections)
		}

		history := api.Group("/history")
		{
			history.GET("", historyHandler.List)
			history.GET("/:id", historyHandler.Get)
			history.DELETE("/:id", historyHandler.Delete)
			history.GET("/:id/feedback", feedbackHandler.GetByEntry)
		}

		feedback := api.Group("/feedback")
		{
			feedback.POST("", feedbackHandler.Create)
			feedback.GET("", feedbackHandler.List)
			feedback.GET("/stats", feedbackHandler.Stats)
		}
	}

	return r
}
