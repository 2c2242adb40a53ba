package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/handle"
)

// RegisterRetentionRoutes 注册保留策略相关路由.
func RegisterRetentionRoutes(g *gin.RouterGroup) {
	retentionRoutes := g.Group("/retention")
	{
		retentionRoutes.POST("/enforce", handle.EnforceRetention) // 对当前用户执行保留策略
		retentionRoutes.GET("/policy", handle.GetRetentionPolicy) // 查看生效的策略
	}
}
