package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultRetentionMaxResults   = 0 // 默认不限制结果数量
	DefaultRetentionMaxAgeDays   = 0 // 默认不限制结果年龄
	DefaultRetentionMaxStorageMB = 0 // 默认不限制总字节数
)

// RetentionConfig 结果保留策略阈值，三项相互独立，0 表示该项不启用.
// 阈值在启动时组装为显式的策略值传入 vault 构造函数，
// 核心内部不读取任何进程级单例.
type RetentionConfig struct {
	MaxResults   int   `mapstructure:"max_results"    rule:"min=0"` // 每用户最多保留的结果数
	MaxAgeDays   int   `mapstructure:"max_age_days"   rule:"min=0"` // 结果最长保留天数
	MaxStorageMB int64 `mapstructure:"max_storage_mb" rule:"min=0"` // 每用户制品总字节预算（MB）
}

// Enabled 只要任一阈值被配置即返回 true.
func (c *RetentionConfig) Enabled() bool {
	return c.MaxResults > 0 || c.MaxAgeDays > 0 || c.MaxStorageMB > 0
}

// setDefaults 设置保留策略的默认值.
func (c *RetentionConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("retention.max_results", DefaultRetentionMaxResults)
	v.SetDefault("retention.max_age_days", DefaultRetentionMaxAgeDays)
	v.SetDefault("retention.max_storage_mb", DefaultRetentionMaxStorageMB)
}
