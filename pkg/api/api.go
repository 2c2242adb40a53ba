// Package api 负责对外 HTTP 接口的分组与版本管理.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/router"
)

// RegisterGroup 把全部业务路由挂到 /api/v1 分组并返回传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e.Group("/api/v1"))

	return e
}
