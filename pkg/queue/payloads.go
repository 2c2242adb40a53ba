package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// 删除原因，用于 ResultDeletedPayload.Reason.
const (
	ReasonExplicit  = "explicit"  // 调用方显式删除
	ReasonRetention = "retention" // 保留策略淘汰
)

// -------------------------- 结果生命周期领域 --------------------------

// ResultRef 标识一次分析结果.
type ResultRef struct {
	UserID   string `json:"user_id"`
	ResultID string `json:"result_id"`
}

// ArtifactRef 标识结果内的一个制品.
type ArtifactRef struct {
	Name        string `json:"name"`
	URI         string `json:"uri"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// ResultStartedPayload 结果记录已创建.
type ResultStartedPayload struct {
	Result ResultRef `json:"result"`
	// Source 触发来源，如 api/cli/job.
	Source string `json:"source,omitempty"`
}

// ArtifactStoredPayload 一个制品已写入后端并登记目录行.
type ArtifactStoredPayload struct {
	Result   ResultRef   `json:"result"`
	Artifact ArtifactRef `json:"artifact"`
	Source   string      `json:"source,omitempty"`
}

// ResultFinalizedPayload 摘要已附加.
type ResultFinalizedPayload struct {
	Result ResultRef `json:"result"`
	// Artifacts 终结时刻结果内的制品数.
	Artifacts int `json:"artifacts,omitempty"`
}

// ResultDeletedPayload 结果被整体删除（目录行、制品行与后端字节）.
type ResultDeletedPayload struct {
	Result ResultRef `json:"result"`
	// Reason 见 ReasonExplicit / ReasonRetention.
	Reason string `json:"reason,omitempty"`
	// BytesFreed 目录口径释放的制品字节.
	BytesFreed int64 `json:"bytes_freed,omitempty"`
}

// -------------------------- 保留策略领域 --------------------------

// RetentionEnforcedPayload 一次保留执行完成.
type RetentionEnforcedPayload struct {
	UserID string `json:"user_id"`
	// Examined 规划快照中的结果数.
	Examined int `json:"examined"`
	// Deleted 实际删除的 result_id，按创建时间升序.
	Deleted    []string `json:"deleted,omitempty"`
	BytesFreed int64    `json:"bytes_freed"`
	// Orphans 目录行已删但 blob 删除失败的数量.
	Orphans int `json:"orphans,omitempty"`
}
