// Package blob 定义制品字节的最小存储能力（Put/Get/Delete），
// 目录与保留策略只依赖该能力，不感知具体后端.
//
// 后端通过工厂按 configs.StorageBackend 枚举注册，启动时解析一次；
// 未知后端是致命的构造错误.
//
// 使用示例：
//
//	store, err := blob.New(ctx, blob.Deps{S3: s3Client})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	uri, err := store.Put(ctx, "user/01J.../chart.png", data, "image/png")
//	raw, err := store.Get(ctx, uri)
//	err = store.Delete(ctx, uri)
package blob

import (
	"context"
	"fmt"

	"github.com/yeisme/resultvault/pkg/configs"
	s3c "github.com/yeisme/resultvault/pkg/internal/storage/s3"
)

// Store 制品字节的最小后端能力.
// key 是由调用方（vault）拼好的 user/result/name 相对定位；
// Put 返回的 uri 是此后重新读取或删除该字节块所需的唯一句柄.
type Store interface {
	// Put 将字节写入 key 对应的确定性位置并返回定位符.
	Put(ctx context.Context, key string, content []byte, contentType string) (uri string, err error)
	// Get 按定位符读回完整字节.
	Get(ctx context.Context, uri string) ([]byte, error)
	// Delete 删除定位符指向的字节块；字节块已不存在时视为成功.
	Delete(ctx context.Context, uri string) error
}

// Deps 提供后端构造所需的外部客户端.
type Deps struct {
	S3 *s3c.Client // 仅 s3 后端需要
}

// Factory 定义创建 Store 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.AppConfig, deps Deps) (Store, error)

// factories 存储后端类型到工厂的映射.
var factories = map[configs.StorageBackend]Factory{}

// RegisterFactory 注册指定后端的工厂.
func RegisterFactory(b configs.StorageBackend, f Factory) {
	factories[b] = f
}

// GetRegisteredBackends 返回已注册的后端类型列表.
func GetRegisteredBackends() []configs.StorageBackend {
	backends := make([]configs.StorageBackend, 0, len(factories))
	for b := range factories {
		backends = append(backends, b)
	}

	return backends
}

// New 按配置解析一次存储后端.
func New(ctx context.Context, deps Deps) (Store, error) {
	cfg := configs.GetConfig()

	factory, ok := factories[cfg.Storage.Backend]
	if !ok {
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}

	store, err := factory(ctx, cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("init storage backend (%s): %w", cfg.Storage.Backend, err)
	}

	return store, nil
}
