// Package storage 聚合全部存储资源：目录数据库、制品 blob 后端
// （含 s3 后端所需的对象存储客户端）、消息队列与 KV 缓存，并在其上
// 装配结果门面 vault.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取结果门面
//
//	v := mgr.GetVault()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/resultvault/pkg/configs"
	"github.com/yeisme/resultvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/resultvault/pkg/internal/storage/db"
	kvc "github.com/yeisme/resultvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/resultvault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/resultvault/pkg/internal/storage/s3"
	"github.com/yeisme/resultvault/pkg/internal/vault"
	nlog "github.com/yeisme/resultvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB *dbc.Client
	// S3 仅在 storage.backend = s3 时初始化，本地后端部署无需对象存储配置
	S3    *s3c.Client
	Blob  blob.Store
	MQ    *mqc.Client
	KV    *kvc.Client
	Vault *vault.Vault
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
// 目录数据库与 blob 后端是硬依赖，初始化失败即致命；
// 消息队列与 KV 属于可选能力，失败时降级运行.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// 目录数据库
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = e

			return
		}
		m.DB = dbi

		// 对象存储客户端只在 s3 后端时构造，bucket 缺失在这里致命
		if cfg.Storage.GetBackend() == configs.BackendS3 {
			s3i, e := s3c.New(ctx)
			if e != nil {
				err = e

				return
			}
			m.S3 = s3i
		}

		// 制品 blob 后端，按配置的枚举解析一次
		store, e := blob.New(ctx, blob.Deps{S3: m.S3})
		if e != nil {
			err = e

			return
		}
		m.Blob = store

		// 消息队列：事件发布是尽力而为，初始化失败降级为无事件运行
		if mqi, e := mqc.New(ctx); e != nil {
			nlog.Logger().Warn().Err(e).Msg("MQ 初始化失败，事件发布被禁用")
		} else {
			m.MQ = mqi
		}

		// KV：响应缓存等可选能力，失败同样降级
		if kvi, e := kvc.NewKVClient(ctx); e != nil {
			nlog.Logger().Warn().Err(e).Msg("KV 初始化失败，缓存能力被禁用")
		} else {
			m.KV = kvi
		}

		// 结果门面：保留策略组装成显式值一次传入
		policy := vault.Policy{
			MaxResults:   cfg.Retention.MaxResults,
			MaxAgeDays:   cfg.Retention.MaxAgeDays,
			MaxStorageMB: cfg.Retention.MaxStorageMB,
		}

		v, e := vault.New(m.DB.GetDB(), m.Blob, policy)
		if e != nil {
			err = e

			return
		}
		m.Vault = v

		mgr = m

		nlog.Logger().Info().
			Str("backend", string(cfg.Storage.GetBackend())).
			Bool("retention", policy.Enabled()).
			Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取目录数据库客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetS3Client 获取对象存储客户端，本地后端部署返回 nil.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetBlobStore 获取制品 blob 后端.
func (m *Manager) GetBlobStore() blob.Store {
	return m.Blob
}

// GetMQClient 获取 MQ 客户端，未启用时返回 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetKVClient 获取 KV 客户端，未启用时返回 nil.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetVault 获取结果门面.
func (m *Manager) GetVault() *vault.Vault {
	return m.Vault
}
