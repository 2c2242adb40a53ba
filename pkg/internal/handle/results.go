package handle

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/service"
	"github.com/yeisme/resultvault/pkg/internal/types"
	"github.com/yeisme/resultvault/pkg/internal/vault"
	"github.com/yeisme/resultvault/pkg/log"
)

// statusFromErr 业务错误到 HTTP 状态码：引用类错误 404，名称非法 400，其余 500.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, vault.ErrResultNotFound), errors.Is(err, vault.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, vault.ErrInvalidArtifactName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// escapeQuoted 转义下载文件名中的引号与换行等.
func escapeQuoted(s string) string {
	replacer := strings.NewReplacer("\\", "_", "\"", "_", ";", "_", "\n", "_", "\r", "_")
	return replacer.Replace(s)
}

// StartResult 创建一条结果记录.
//
//	@Summary		创建结果
//	@Description	为当前用户创建一条结果记录，请求体中的 metadata 文档随行存储且创建后不可变
//	@Tags			结果
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.StartResultRequest	false	"结果元数据"
//	@Success		200		{object}	types.StartResultResponse	"新结果标识"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		500		{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/results [post]
func StartResult(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	// 空请求体表示无元数据
	var req types.StartResultRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			l.Warn().Err(err).Msg("invalid request body")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.StartResult(c.Request.Context(), user, &req)
	if err != nil {
		l.Error().Err(err).Msg("start result failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListResults 列出当前用户的结果.
//
//	@Summary		结果列表
//	@Description	按创建时间倒序返回当前用户的结果，limit 默认 25、上限 100
//	@Tags			结果
//	@Produce		json
//	@Param			limit	query		int							false	"返回条数"
//	@Success		200		{object}	types.ListResultsResponse	"结果列表"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		500		{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/results [get]
func ListResults(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.ListResults(c.Request.Context(), user, limit)
	if err != nil {
		l.Error().Err(err).Msg("list results failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetResult 结果详情.
//
//	@Summary		结果详情
//	@Description	返回单个结果及其制品清单（同名制品只含最新一条）
//	@Tags			结果
//	@Produce		json
//	@Param			id	path		string					true	"结果标识"
//	@Success		200	{object}	types.ResultDetail		"结果详情"
//	@Failure		404	{object}	map[string]string		"结果不存在"
//	@Failure		500	{object}	map[string]string		"服务器内部错误"
//	@Router			/api/v1/results/{id} [get]
func GetResult(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.GetResult(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		l.Warn().Err(err).Str("result_id", c.Param("id")).Msg("get result failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// FinalizeResult 为结果附加摘要.
//
//	@Summary		终结结果
//	@Description	附加摘要文档；摘要为空表示显式跳过终结，不改动结果
//	@Tags			结果
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"结果标识"
//	@Param			body	body		types.FinalizeResultRequest		false	"摘要文档"
//	@Success		200		{object}	types.FinalizeResultResponse	"终结状态"
//	@Failure		404		{object}	map[string]string				"结果不存在"
//	@Failure		500		{object}	map[string]string				"服务器内部错误"
//	@Router			/api/v1/results/{id}/finalize [post]
func FinalizeResult(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	var req types.FinalizeResultRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			l.Warn().Err(err).Msg("invalid request body")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.FinalizeResult(c.Request.Context(), user, c.Param("id"), &req)
	if err != nil {
		l.Error().Err(err).Str("result_id", c.Param("id")).Msg("finalize result failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteResult 整体删除一个结果.
//
//	@Summary		删除结果
//	@Description	删除目录行、全部制品行与后端字节，返回释放的字节数
//	@Tags			结果
//	@Produce		json
//	@Param			id	path		string						true	"结果标识"
//	@Success		200	{object}	types.DeleteResultResponse	"删除报告"
//	@Failure		404	{object}	map[string]string			"结果不存在"
//	@Failure		500	{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/results/{id} [delete]
func DeleteResult(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.DeleteResult(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		l.Error().Err(err).Str("result_id", c.Param("id")).Msg("delete result failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportResult 导出结果的全部制品为 zip.
//
//	@Summary		导出结果
//	@Description	把结果内全部制品（同名取最新）打包为 zip 流式返回
//	@Tags			结果
//	@Produce		application/zip
//	@Param			id	path		string				true	"结果标识"
//	@Success		200	{file}		file				"zip 包"
//	@Failure		404	{object}	map[string]string	"结果不存在"
//	@Failure		500	{object}	map[string]string	"服务器内部错误"
//	@Router			/api/v1/results/{id}/export [get]
func ExportResult(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	id := c.Param("id")
	svc := service.NewVaultService(c.Request.Context())

	// 先确认结果存在再发响应头，中途失败只能断流
	if _, err := svc.GetResult(c.Request.Context(), user, id); err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", "attachment; filename=\""+escapeQuoted(service.ExportFileName(id))+"\"")

	n, err := svc.ExportResult(c.Request.Context(), user, id, c.Writer)
	if err != nil {
		l.Error().Err(err).Str("result_id", id).Msg("export result failed")
		return
	}

	l.Debug().Str("result_id", id).Int("artifacts", n).Msg("result exported")
}
