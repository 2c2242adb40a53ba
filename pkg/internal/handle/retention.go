package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/service"
	"github.com/yeisme/resultvault/pkg/log"
)

// EnforceRetention 对当前用户执行保留策略.
//
//	@Summary		执行保留策略
//	@Description	按 max_results/max_age_days/max_storage_mb 的并集淘汰最旧结果，返回执行报告；策略未配置时报告为空
//	@Tags			保留
//	@Produce		json
//	@Success		200	{object}	types.RetentionReport	"执行报告"
//	@Failure		400	{object}	map[string]string		"请求参数错误"
//	@Failure		500	{object}	map[string]string		"服务器内部错误"
//	@Router			/api/v1/retention/enforce [post]
func EnforceRetention(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	rep, err := svc.EnforceRetention(c.Request.Context(), user)
	if err != nil {
		l.Error().Err(err).Str("user", user).Msg("enforce retention failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, rep)
}

// GetRetentionPolicy 当前生效的保留策略.
//
//	@Summary		保留策略
//	@Tags			保留
//	@Produce		json
//	@Success		200	{object}	types.RetentionPolicyInfo	"策略配置"
//	@Router			/api/v1/retention/policy [get]
func GetRetentionPolicy(c *gin.Context) {
	svc := service.NewVaultService(c.Request.Context())
	c.JSON(http.StatusOK, svc.PolicyInfo())
}
