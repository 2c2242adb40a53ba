package kv

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memoryEntry 保存值与过期时间，零值 expireAt 表示永不过期.
type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// MemoryKV 进程内 KV 实现，支持按键 TTL.
// 过期项在读取时惰性删除；单机部署下响应缓存依赖这里的过期语义.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(ctx context.Context, config any) (KVStore, error) {
	// 内存实现不需要特殊配置
	return &MemoryKV{data: make(map[string]memoryEntry)}, nil
}

// Get 获取键的值，过期项视同不存在并顺带删除.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	now := time.Now()

	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	if entry.expired(now) {
		m.mu.Lock()
		// 重查，避免误删读取与加写锁之间写入的新值
		if cur, ok := m.data[key]; ok && cur.expired(now) {
			delete(m.data, key)
		}
		m.mu.Unlock()

		return nil, fmt.Errorf("key not found: %s", key)
	}

	// 返回副本
	result := make([]byte, len(entry.value))
	copy(result, entry.value)

	return result, nil
}

// Set 设置键的值，ttl>0 时到期后自动失效.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// 复制值
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)

	if ttl > 0 {
		entry.expireAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	return nil
}

// Exists 检查键是否存在，过期视同不存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()

	return exists && !entry.expired(now), nil
}

// Keys 获取所有未过期的键.
func (m *MemoryKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	now := time.Now()
	keys := make([]string, 0)

	m.mu.RLock()
	for k, entry := range m.data {
		if entry.expired(now) {
			continue
		}

		if pattern == "" || k == pattern {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()

	return keys, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
