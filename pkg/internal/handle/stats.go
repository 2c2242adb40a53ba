package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/service"
	"github.com/yeisme/resultvault/pkg/log"
)

// UsageStats 当前用户的占用统计.
//
//	@Summary		占用统计
//	@Description	返回结果数与制品总字节（目录口径，含同名覆盖的历史行），附当前保留策略
//	@Tags			统计
//	@Produce		json
//	@Success		200	{object}	types.UsageResponse	"占用统计"
//	@Failure		400	{object}	map[string]string	"请求参数错误"
//	@Failure		500	{object}	map[string]string	"服务器内部错误"
//	@Router			/api/v1/stats/usage [get]
func UsageStats(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewStatsService(c.Request.Context())

	resp, err := svc.Usage(c.Request.Context(), user)
	if err != nil {
		l.Error().Err(err).Str("user", user).Msg("usage stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}
