package handle

import (
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/internal/service"
	"github.com/yeisme/resultvault/pkg/log"
)

const defaultContentType = "application/octet-stream"

// SaveArtifact 写入一个制品：multipart 文件或原始请求体.
//
//	@Summary		写入制品
//	@Description	multipart 方式取 file 字段（可用 name/content_type/metadata 表单项覆盖），原始体方式用 name 查询参数命名，Content-Type 头登记为内容类型
//	@Tags			制品
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string						true	"结果标识"
//	@Param			file			formData	file						false	"制品文件"
//	@Param			name			formData	string						false	"制品名，默认取上传文件名"
//	@Param			content_type	formData	string						false	"内容类型"
//	@Param			metadata		formData	string						false	"元数据(JSON)"
//	@Success		200				{object}	types.SaveArtifactResponse	"制品登记信息"
//	@Failure		400				{object}	map[string]string			"请求参数错误"
//	@Failure		404				{object}	map[string]string			"结果不存在"
//	@Failure		500				{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/results/{id}/artifacts [post]
func SaveArtifact(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	name, content, contentType, metadata, err := readArtifactUpload(c)
	if err != nil {
		l.Warn().Err(err).Msg("invalid artifact upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.SaveArtifact(c.Request.Context(), user, c.Param("id"), name, content, contentType, metadata)
	if err != nil {
		l.Error().Err(err).Str("result_id", c.Param("id")).Str("name", name).Msg("save artifact failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// readArtifactUpload 解析制品上传：优先 multipart 的 file 字段，否则整个请求体.
func readArtifactUpload(c *gin.Context) (name string, content []byte, contentType string, metadata map[string]any, err error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		file, ferr := c.FormFile("file")
		if ferr != nil {
			return "", nil, "", nil, ferr
		}

		name = c.PostForm("name")
		if name == "" {
			name = file.Filename
		}

		contentType = c.PostForm("content_type")
		if contentType == "" {
			contentType = file.Header.Get("Content-Type")
		}

		if metaStr := c.PostForm("metadata"); metaStr != "" {
			// 元数据不合法按上传错误处理，制品字节不落库
			if err := sonic.UnmarshalString(metaStr, &metadata); err != nil {
				return "", nil, "", nil, err
			}
		}

		src, ferr := file.Open()
		if ferr != nil {
			return "", nil, "", nil, ferr
		}
		defer src.Close()

		content, err = io.ReadAll(src)
		if err != nil {
			return "", nil, "", nil, err
		}
	} else {
		name = c.Query("name")

		contentType = c.ContentType()

		content, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", nil, "", nil, err
		}
	}

	if contentType == "" {
		contentType = defaultContentType
	}

	return name, content, contentType, metadata, nil
}

// ListArtifacts 制品清单.
//
//	@Summary		制品清单
//	@Description	名称升序返回结果的制品，同名制品只含最新一条
//	@Tags			制品
//	@Produce		json
//	@Param			id	path		string						true	"结果标识"
//	@Success		200	{object}	types.ListArtifactsResponse	"制品清单"
//	@Failure		404	{object}	map[string]string			"结果不存在"
//	@Failure		500	{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/results/{id}/artifacts [get]
func ListArtifacts(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.ListArtifacts(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		l.Warn().Err(err).Str("result_id", c.Param("id")).Msg("list artifacts failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetArtifact 读回制品字节.
//
//	@Summary		读取制品
//	@Description	按名返回制品最新版本的字节，内容类型取目录登记值
//	@Tags			制品
//	@Produce		application/octet-stream
//	@Param			id		path		string				true	"结果标识"
//	@Param			name	path		string				true	"制品名"
//	@Success		200		{file}		file				"制品字节"
//	@Failure		404		{object}	map[string]string	"结果或制品不存在"
//	@Failure		500		{object}	map[string]string	"服务器内部错误"
//	@Router			/api/v1/results/{id}/artifacts/{name} [get]
func GetArtifact(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	name := c.Param("name")
	svc := service.NewVaultService(c.Request.Context())

	raw, contentType, err := svc.ReadArtifact(c.Request.Context(), user, c.Param("id"), name)
	if err != nil {
		l.Warn().Err(err).Str("result_id", c.Param("id")).Str("name", name).Msg("read artifact failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	if contentType == "" {
		contentType = defaultContentType
	}

	c.Header("Content-Disposition", "attachment; filename=\""+escapeQuoted(name)+"\"")
	c.Data(http.StatusOK, contentType, raw)
}

// BuildManifest 生成并落库清单制品.
//
//	@Summary		生成清单
//	@Description	汇总结果内全部制品的 name→uri 写入 manifest.json 制品并返回条目表
//	@Tags			制品
//	@Produce		json
//	@Param			id	path		string					true	"结果标识"
//	@Success		200	{object}	types.ManifestResponse	"清单内容与登记信息"
//	@Failure		404	{object}	map[string]string		"结果不存在"
//	@Failure		500	{object}	map[string]string		"服务器内部错误"
//	@Router			/api/v1/results/{id}/manifest [post]
func BuildManifest(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.BuildManifest(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		l.Error().Err(err).Str("result_id", c.Param("id")).Msg("build manifest failed")
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}
