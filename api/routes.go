package api

import (
	"net/http"

	"backend/api/handlers/folders"
	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/metrics"
	middlewarepkg "backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 组装路由与中间件
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	container, err := BuildContainer(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewarepkg.RequestIDMiddleware())
	router.Use(metrics.PrometheusMiddleware())

	RegisterRoutes(router, container)
	return router, nil
}

// RegisterRoutes 注册所有 API 路由
func RegisterRoutes(router *gin.Engine, container *AppContainer) {
	// 公开端点
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "rag-api"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 业务 API（需要认证）
	h := folders.NewHandler(container.RAGService)

	api := router.Group("/api")
	api.Use(auth.AuthMiddleware(container.Verifier))
	{
		api.POST("/index_folder", h.IndexFolder)
		api.POST("/chat", h.Chat)
		api.GET("/folders", h.Folders)
	}
}
