package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/handle"
)

// RegisterStatsRoutes 注册统计相关路由.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	// 统计路由
	statsRoutes := g.Group("/stats")
	{
		statsRoutes.GET("/usage", handle.UsageStats) // 存储使用统计
	}
}
