package types

// RetentionReport 一次保留策略执行的结果.
type RetentionReport struct {
	UserID string `json:"user_id"`
	// Examined 规划快照中的结果数
	Examined int `json:"examined"`
	// Deleted 实际删除的 result_id，创建时间升序
	Deleted    []string `json:"deleted,omitempty"`
	BytesFreed int64    `json:"bytes_freed"`
	// Orphans 目录行已删但后端字节删除失败的数量
	Orphans int `json:"orphans,omitempty"`
}

// RetentionPolicyInfo 当前生效的保留策略，0 表示该维度不启用.
type RetentionPolicyInfo struct {
	MaxResults   int   `json:"max_results"`
	MaxAgeDays   int   `json:"max_age_days"`
	MaxStorageMB int64 `json:"max_storage_mb"`
	Enabled      bool  `json:"enabled"`
}
