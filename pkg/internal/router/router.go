// Package router 管理路由配置，负责把路径和 pkg/internal/handle 中的处理器绑定到 gin 引擎.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 把全部业务路由绑定到传入的 gin 路由组.
// 绑定的路径（假定上层会用 g := e.Group("/api/v1")）：
//
//	POST   /results                          -> 开始结果
//	GET    /results                          -> 列出结果
//	GET    /results/:id                      -> 结果详情
//	DELETE /results/:id                      -> 删除结果
//	POST   /results/:id/finalize             -> 定稿
//	GET    /results/:id/export               -> 打包下载
//	POST   /results/:id/manifest             -> 生成清单
//	POST   /results/:id/artifacts            -> 保存制品
//	GET    /results/:id/artifacts            -> 制品列表
//	GET    /results/:id/artifacts/:name      -> 下载制品
//	POST   /retention/enforce                -> 执行保留策略
//	GET    /retention/policy                 -> 查看策略
//	GET    /stats/usage                      -> 用量统计
//	GET    /health/{db,s3,mq}                -> 健康检查
//	GET    /scheduler/...                    -> 调度器管理
func RegisterAPIRoutes(g *gin.RouterGroup) {
	RegisterResultsRoutes(g)
	RegisterRetentionRoutes(g)
	RegisterStatsRoutes(g)
	RegisterHealthCheckRoute(g)
	RegisterSchedulerRoutes(g)
}
