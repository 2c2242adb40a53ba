package types

// ArtifactInfo 制品目录行对外视图.
type ArtifactInfo struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	// URI 后端定位符，本地后端为绝对路径，对象存储为 s3://bucket/key
	URI string `json:"uri"`
}

// SaveArtifactResponse 制品写入响应.
type SaveArtifactResponse struct {
	ResultID string       `json:"result_id"`
	Artifact ArtifactInfo `json:"artifact"`
}

// ListArtifactsResponse 制品清单，名称升序，同名只含最新一条.
type ListArtifactsResponse struct {
	ResultID  string         `json:"result_id"`
	Artifacts []ArtifactInfo `json:"artifacts"`
	Total     int            `json:"total"`
}

// ManifestResponse 清单文档响应：name→uri 映射已作为 manifest.json 制品落库.
type ManifestResponse struct {
	ResultID string `json:"result_id"`
	// Entries 生成清单时结果内全部制品的 name→uri
	Entries  map[string]string `json:"entries"`
	Manifest ArtifactInfo      `json:"manifest"`
}
