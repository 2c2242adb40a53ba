package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled   bool                  `mapstructure:"enabled"` // 总开关
	Result    ResultEventsConfig    `mapstructure:"result"`
	Retention RetentionEventsConfig `mapstructure:"retention"`
}

// ResultEventsConfig 针对结果生命周期的事件开关。
type ResultEventsConfig struct {
	Started   bool `mapstructure:"started"`
	Stored    bool `mapstructure:"stored"`
	Finalized bool `mapstructure:"finalized"`
	Deleted   bool `mapstructure:"deleted"`
}

// RetentionEventsConfig 针对保留策略执行的事件开关。
type RetentionEventsConfig struct {
	Enforced bool `mapstructure:"enforced"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 结果生命周期事件：默认开启终态事件，避免噪声过大
	v.SetDefault("events.result.finalized", true)
	v.SetDefault("events.result.deleted", true)

	// 可选事件：默认关闭，按需开启
	v.SetDefault("events.result.started", false)
	v.SetDefault("events.result.stored", false) // 每个制品写入都会发一条，量大，默认关闭

	// 保留策略执行结果：默认开启，便于审计删除
	v.SetDefault("events.retention.enforced", true)
}
