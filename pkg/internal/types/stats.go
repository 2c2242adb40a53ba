package types

// UsageResponse 用户当前占用：结果数与制品总字节（目录口径，含同名覆盖的历史行）.
type UsageResponse struct {
	UserID  string `json:"user_id"`
	Results int64  `json:"results"`
	Bytes   int64  `json:"bytes"`
	// Policy 当前生效的保留策略，便于调用方换算余量
	Policy RetentionPolicyInfo `json:"policy"`
}
