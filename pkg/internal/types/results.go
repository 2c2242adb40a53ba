package types

// StartResultRequest 创建结果请求：元数据文档随写请求提交，之后不可变.
type StartResultRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// StartResultResponse 创建结果响应.
type StartResultResponse struct {
	ResultID  string `json:"result_id"`
	CreatedAt string `json:"created_at"` // RFC3339
}

// ResultInfo 结果列表项：目录行加解码后的元数据与摘要.
type ResultInfo struct {
	ResultID  string         `json:"result_id"`
	UserID    string         `json:"user_id"`
	CreatedAt string         `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Summary   map[string]any `json:"summary,omitempty"`
	Finalized bool           `json:"finalized"`
}

// ResultDetail 单个结果详情，附带制品清单（按名去重后的最新行）.
type ResultDetail struct {
	ResultInfo
	Artifacts []ArtifactInfo `json:"artifacts"`
}

// ListResultsRequest 列表查询参数.
type ListResultsRequest struct {
	// Limit 返回条数上限，0 走默认值
	Limit int `form:"limit" json:"limit"`
}

// ListResultsResponse 结果列表，创建时间降序.
type ListResultsResponse struct {
	Results []ResultInfo `json:"results"`
	Total   int          `json:"total"`
}

// FinalizeResultRequest 终结请求：摘要文档整体替换既有摘要.
type FinalizeResultRequest struct {
	Summary map[string]any `json:"summary"`
}

// FinalizeResultResponse 终结响应.
type FinalizeResultResponse struct {
	ResultID  string `json:"result_id"`
	Finalized bool   `json:"finalized"`
	// Artifacts 终结时刻结果内的制品数
	Artifacts int `json:"artifacts"`
}

// DeleteResultResponse 删除响应：目录口径释放的字节数.
type DeleteResultResponse struct {
	ResultID   string `json:"result_id"`
	BytesFreed int64  `json:"bytes_freed"`
}
