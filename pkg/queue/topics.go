package queue

// 主题命名规范：rv.<域>.<动作>，尽量稳定且向后兼容.
// 域：result(结果生命周期)、retention(保留策略)
// 动作：过去式表示已发生的事实(started/stored/finalized/deleted/enforced)

const (
	// 结果生命周期领域.
	TopicResultStarted   = "rv.result.started"   // 结果记录已创建，可开始写入制品
	TopicResultStored    = "rv.result.stored"    // 一个制品已写入后端并登记目录行
	TopicResultFinalized = "rv.result.finalized" // 摘要已附加，结果进入只读状态
	TopicResultDeleted   = "rv.result.deleted"   // 结果被整体删除（显式或保留策略）

	// 保留策略领域.
	TopicRetentionEnforced = "rv.retention.enforced" // 一次保留执行完成，含删除清单
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 结果生命周期相关主题集合.
	ResultTopics = []string{
		TopicResultStarted, TopicResultStored,
		TopicResultFinalized, TopicResultDeleted,
	}

	// 保留策略相关主题集合.
	RetentionTopics = []string{
		TopicRetentionEnforced,
	}
)
