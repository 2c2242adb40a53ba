package configs

import (
	"github.com/spf13/viper"
)

// StorageBackend 制品存储后端类型.
type StorageBackend string

const (
	// BackendLocal 本地文件系统后端，制品按 user/result/name 写入目录树.
	BackendLocal StorageBackend = "local"
	// BackendS3 对象存储后端，制品写入 MinIO/S3 桶.
	BackendS3 StorageBackend = "s3"

	DefaultStorageBackend  = BackendLocal // 默认存储后端
	DefaultStorageLocalDir = "storage"    // 默认本地制品根目录
	DefaultStoragePrefix   = ""           // 默认对象键前缀（空 = 不加前缀）
)

// StorageConfig 制品存储后端配置.
// Backend 在启动时解析一次为具体实现；未知类型是致命的构造错误，
// 不允许在调用点做运行时字符串分派.
type StorageConfig struct {
	Backend StorageBackend     `mapstructure:"backend" rule:"oneof=local s3"`
	Local   StorageLocalConfig `mapstructure:"local"`
	Prefix  string             `mapstructure:"prefix"`
}

// StorageLocalConfig 本地后端配置.
type StorageLocalConfig struct {
	Root string `mapstructure:"root" rule:"required"`
}

// GetBackend 返回当前配置的存储后端类型.
func (c *StorageConfig) GetBackend() StorageBackend {
	return c.Backend
}

// setDefaults 设置存储后端配置的默认值.
func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", DefaultStorageBackend)
	v.SetDefault("storage.local.root", DefaultStorageLocalDir)
	v.SetDefault("storage.prefix", DefaultStoragePrefix)
}
