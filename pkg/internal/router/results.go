package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/handle"
)

// RegisterResultsRoutes 注册结果与制品相关路由.
func RegisterResultsRoutes(g *gin.RouterGroup) {
	// 结果生命周期路由
	resultsRoutes := g.Group("/results")
	{
		// 开始新结果
		resultsRoutes.POST("", handle.StartResult)
		// 列出当前用户的结果（新到旧）
		resultsRoutes.GET("", handle.ListResults)

		// 单个结果操作
		singleGroup := resultsRoutes.Group("/:id")
		{
			// 结果详情（含制品清单）
			singleGroup.GET("", handle.GetResult)
			// 删除结果及其全部制品
			singleGroup.DELETE("", handle.DeleteResult)
			// 写入摘要并定稿
			singleGroup.POST("/finalize", handle.FinalizeResult)
			// 打包导出为 zip
			singleGroup.GET("/export", handle.ExportResult)
			// 生成制品清单 manifest.json
			singleGroup.POST("/manifest", handle.BuildManifest)

			// 制品路由
			artifactGroup := singleGroup.Group("/artifacts")
			{
				artifactGroup.POST("", handle.SaveArtifact)       // 保存制品
				artifactGroup.GET("", handle.ListArtifacts)       // 制品清单
				artifactGroup.GET("/:name", handle.GetArtifact)   // 下载单个制品
			}
		}
	}
}
