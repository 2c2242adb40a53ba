package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishResultStarted 发布 rv.result.started 事件。
// 用于结果记录创建后通知下游（如审计、用量看板）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishResultStarted(pub message.Publisher, payload ResultStartedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicResultStarted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicResultStarted, msg)
}

// ParseResultStarted 将 Watermill 消息解析为强类型 Envelope（ResultStartedPayload）。
func ParseResultStarted(msg *message.Message) (Message[ResultStartedPayload], error) {
	return ParseWatermillMessage[ResultStartedPayload](msg)
}

// PublishArtifactStored 发布 rv.result.stored 事件。
// 在制品字节写入后端且目录行登记完成后发布。
func PublishArtifactStored(pub message.Publisher, payload ArtifactStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicResultStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicResultStored, msg)
}

// ParseArtifactStored 将 Watermill 消息解析为强类型 Envelope（ArtifactStoredPayload）。
func ParseArtifactStored(msg *message.Message) (Message[ArtifactStoredPayload], error) {
	return ParseWatermillMessage[ArtifactStoredPayload](msg)
}

// PublishResultFinalized 发布 rv.result.finalized 事件。
func PublishResultFinalized(pub message.Publisher, payload ResultFinalizedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicResultFinalized, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicResultFinalized, msg)
}

// ParseResultFinalized 将 Watermill 消息解析为强类型 Envelope（ResultFinalizedPayload）。
func ParseResultFinalized(msg *message.Message) (Message[ResultFinalizedPayload], error) {
	return ParseWatermillMessage[ResultFinalizedPayload](msg)
}

// PublishResultDeleted 发布 rv.result.deleted 事件。
// Reason 区分显式删除与保留策略淘汰。
func PublishResultDeleted(pub message.Publisher, payload ResultDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicResultDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicResultDeleted, msg)
}

// ParseResultDeleted 将 Watermill 消息解析为强类型 Envelope（ResultDeletedPayload）。
func ParseResultDeleted(msg *message.Message) (Message[ResultDeletedPayload], error) {
	return ParseWatermillMessage[ResultDeletedPayload](msg)
}

// PublishRetentionEnforced 发布 rv.retention.enforced 事件。
// 每次保留执行（HTTP 触发或夜间任务）完成后发布一次。
func PublishRetentionEnforced(pub message.Publisher, payload RetentionEnforcedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicRetentionEnforced, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicRetentionEnforced, msg)
}

// ParseRetentionEnforced 将 Watermill 消息解析为强类型 Envelope（RetentionEnforcedPayload）。
func ParseRetentionEnforced(msg *message.Message) (Message[RetentionEnforcedPayload], error) {
	return ParseWatermillMessage[RetentionEnforcedPayload](msg)
}
