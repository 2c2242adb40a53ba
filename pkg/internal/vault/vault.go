// Package vault 实现结果存储的后端无关核心：目录（results/artifacts 两张表）、
// 最小 blob 能力之上的制品读写，以及保留策略的规划与执行.
// HTTP、事件、调度等外围只通过这里的门面操作访问结果数据.
package vault

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/yeisme/resultvault/pkg/internal/model"
	"github.com/yeisme/resultvault/pkg/internal/storage/blob"
	nlog "github.com/yeisme/resultvault/pkg/log"
)

// 全局单例的 ULID 熵源，使用单调递增策略，保证同一毫秒内生成的 result_id
// 仍然可排序且不冲突。单调熵源本身非并发安全，由 ulidMu 串行化访问。
var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(crand.Reader, 0)
)

// newResultID 生成一个以 t 为时间戳的 result_id.
func newResultID(t time.Time) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

// Vault 把目录数据库、blob 后端与保留策略组合成结果存储门面.
// 内部不加锁也不重试：同一用户默认只有一个逻辑写入方，
// 超时与重试策略属于调用方.
type Vault struct {
	db     *gorm.DB
	blobs  blob.Store
	policy Policy
	now    func() time.Time
}

// Option 调整 Vault 的可选构造参数.
type Option func(*Vault)

// WithClock 注入时间源，保留策略与 created_at 的测试用.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// New 创建 Vault.保留策略是显式传入的值，核心不读取任何进程级配置.
func New(db *gorm.DB, blobs blob.Store, policy Policy, opts ...Option) (*Vault, error) {
	if db == nil {
		return nil, fmt.Errorf("catalog db is required")
	}

	if blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	v := &Vault{
		db:     db,
		blobs:  blobs,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Policy 返回构造时传入的保留策略.
func (v *Vault) Policy() Policy { return v.policy }

// StartResult 为用户创建一条新的结果记录并返回 result_id.
// metadata 原样存储，核心从不解释其内容.
func (v *Vault) StartResult(ctx context.Context, userID string, metadata map[string]any) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	metaJSON, err := marshalDoc(metadata)
	if err != nil {
		return "", fmt.Errorf("encode result metadata: %w", err)
	}

	now := v.now()
	id := newResultID(now)

	res := model.Result{
		ResultID:     id,
		UserID:       userID,
		CreatedAt:    now,
		MetadataJSON: metaJSON,
	}

	if err := v.db.WithContext(ctx).Create(&res).Error; err != nil {
		return "", fmt.Errorf("insert result row: %w", err)
	}

	return id, nil
}

// SaveArtifact 把制品字节写入 blob 后端并追加一条目录行，返回后端定位符.
// 写入位置由 (user_id, result_id, name) 确定；同名重复写入覆盖后端字节，
// 目录行仍然每次追加（追加式写日志），按名读取返回最新一行.
// blob 写入先于目录插入，写入失败时不会产生目录行.
func (v *Vault) SaveArtifact(ctx context.Context, userID, resultID, name string,
	content []byte, contentType string, metadata map[string]any,
) (string, error) {
	if err := validateArtifactName(name); err != nil {
		return "", err
	}

	// 结果行必须先于制品行存在
	if _, err := v.GetResult(ctx, userID, resultID); err != nil {
		return "", err
	}

	metaJSON, err := marshalDoc(metadata)
	if err != nil {
		return "", fmt.Errorf("encode artifact metadata: %w", err)
	}

	key := userID + "/" + resultID + "/" + name

	uri, err := v.blobs.Put(ctx, key, content, contentType)
	if err != nil {
		return "", fmt.Errorf("write artifact blob %s: %w", key, err)
	}

	art := model.Artifact{
		ResultID:     resultID,
		Name:         name,
		URI:          uri,
		ContentType:  contentType,
		Size:         int64(len(content)),
		MetadataJSON: metaJSON,
	}

	if err := v.db.WithContext(ctx).Create(&art).Error; err != nil {
		return "", fmt.Errorf("insert artifact row: %w", err)
	}

	return uri, nil
}

// SaveJSON 把文档序列化为 JSON 制品写入，契约同 SaveArtifact.
func (v *Vault) SaveJSON(ctx context.Context, userID, resultID, name string,
	doc any, metadata map[string]any,
) (string, error) {
	raw, err := sonic.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode json artifact %s: %w", name, err)
	}

	return v.SaveArtifact(ctx, userID, resultID, name, raw, "application/json", metadata)
}

// FinalizeResult 为已存在的结果附加摘要文档.
// summary 为空表示调用方显式跳过终结，不写库也不报错；
// result_id 不存在时返回 ErrResultNotFound.
func (v *Vault) FinalizeResult(ctx context.Context, resultID string, summary map[string]any) error {
	if len(summary) == 0 {
		return nil
	}

	raw, err := sonic.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode result summary: %w", err)
	}

	tx := v.db.WithContext(ctx).Model(&model.Result{}).
		Where("result_id = ?", resultID).
		Update("summary_json", string(raw))
	if tx.Error != nil {
		return fmt.Errorf("finalize result %s: %w", resultID, tx.Error)
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("finalize result %s: %w", resultID, ErrResultNotFound)
	}

	return nil
}

// GetResult 返回用户名下指定的结果行.
func (v *Vault) GetResult(ctx context.Context, userID, resultID string) (*model.Result, error) {
	var res model.Result

	err := v.db.WithContext(ctx).
		Where("result_id = ? AND user_id = ?", resultID, userID).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("result %s: %w", resultID, ErrResultNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("query result %s: %w", resultID, err)
	}

	return &res, nil
}

// ListResults 按创建时间倒序返回用户的结果，limit <= 0 表示不限制.
func (v *Vault) ListResults(ctx context.Context, userID string, limit int) ([]model.Result, error) {
	q := v.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, result_id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []model.Result
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list results for %s: %w", userID, err)
	}

	return out, nil
}

// ListArtifacts 返回结果下的制品清单，按名排序；同名多次写入只取最新一行.
// 结果不存在时返回空清单，与删除后的可见性一致.
func (v *Vault) ListArtifacts(ctx context.Context, resultID string) ([]model.Artifact, error) {
	latest := v.db.WithContext(ctx).Model(&model.Artifact{}).
		Select("MAX(id)").
		Where("result_id = ?", resultID).
		Group("name")

	var out []model.Artifact
	if err := v.db.WithContext(ctx).
		Where("id IN (?)", latest).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list artifacts for %s: %w", resultID, err)
	}

	return out, nil
}

// GetArtifact 返回结果下指定名字的最新制品行.
func (v *Vault) GetArtifact(ctx context.Context, resultID, name string) (*model.Artifact, error) {
	var art model.Artifact

	err := v.db.WithContext(ctx).
		Where("result_id = ? AND name = ?", resultID, name).
		Order("id DESC").
		First(&art).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("artifact %s/%s: %w", resultID, name, ErrArtifactNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("query artifact %s/%s: %w", resultID, name, err)
	}

	return &art, nil
}

// ReadArtifact 按目录记录的定位符读回制品字节.
func (v *Vault) ReadArtifact(ctx context.Context, uri string) ([]byte, error) {
	raw, err := v.blobs.Get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("read artifact blob: %w", err)
	}

	return raw, nil
}

// DeleteResult 整体删除一个结果：目录行、全部制品行与对应的后端字节.
// 目录先删（制品行一并带走），blob 后删；blob 删除失败只记日志，
// 留下的孤儿不再被目录引用，也不会出现在任何列表中.
// 返回目录口径释放的字节数.
func (v *Vault) DeleteResult(ctx context.Context, userID, resultID string) (int64, error) {
	freed, _, err := v.deleteResult(ctx, userID, resultID)

	return freed, err
}

// Usage 用户当前占用：结果数与目录口径的制品总字节.
type Usage struct {
	Results int64 `json:"results"`
	Bytes   int64 `json:"bytes"`
}

// Usage 统计用户的结果数与制品总字节.追加式目录按全部行求和，
// 与保留策略使用同一口径.
func (v *Vault) Usage(ctx context.Context, userID string) (Usage, error) {
	var agg struct {
		ResultCount int64 `gorm:"column:result_count"`
		TotalBytes  int64 `gorm:"column:total_bytes"`
	}

	err := v.db.WithContext(ctx).Model(&model.Result{}).
		Select("COUNT(DISTINCT results.result_id) AS result_count, COALESCE(SUM(artifacts.size),0) AS total_bytes").
		Joins("LEFT JOIN artifacts ON artifacts.result_id = results.result_id").
		Where("results.user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return Usage{}, fmt.Errorf("aggregate usage for %s: %w", userID, err)
	}

	return Usage{Results: agg.ResultCount, Bytes: agg.TotalBytes}, nil
}

// deleteResult 执行两阶段删除，返回目录口径释放的字节数与 blob 删除失败数.
func (v *Vault) deleteResult(ctx context.Context, userID, resultID string) (int64, int, error) {
	if _, err := v.GetResult(ctx, userID, resultID); err != nil {
		return 0, 0, err
	}

	var arts []model.Artifact
	if err := v.db.WithContext(ctx).
		Where("result_id = ?", resultID).
		Find(&arts).Error; err != nil {
		return 0, 0, fmt.Errorf("load artifacts for %s: %w", resultID, err)
	}

	var freed int64

	// 同名覆盖写会产生多行同一定位符，按定位符去重后逐个删除
	uris := make([]string, 0, len(arts))
	seen := make(map[string]struct{}, len(arts))

	for _, a := range arts {
		freed += a.Size

		if _, ok := seen[a.URI]; ok {
			continue
		}

		seen[a.URI] = struct{}{}
		uris = append(uris, a.URI)
	}

	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("result_id = ?", resultID).Delete(&model.Artifact{}).Error; err != nil {
			return err
		}

		return tx.Where("result_id = ?", resultID).Delete(&model.Result{}).Error
	})
	if err != nil {
		return 0, 0, fmt.Errorf("delete catalog rows for %s: %w", resultID, err)
	}

	orphans := 0

	for _, uri := range uris {
		if err := v.blobs.Delete(ctx, uri); err != nil {
			nlog.Logger().Warn().Err(err).
				Str("result_id", resultID).
				Str("uri", uri).
				Msg("blob delete failed after catalog removal, orphan left behind")

			orphans++
		}
	}

	return freed, orphans, nil
}

// marshalDoc 把调用方文档序列化为 JSON 文本，空文档落为空对象.
func marshalDoc(doc map[string]any) (string, error) {
	if len(doc) == 0 {
		return "{}", nil
	}

	raw, err := sonic.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// validateArtifactName 拒绝空名、点名与含路径分隔符的逻辑文件名，
// 保证制品落在 (user_id, result_id) 前缀之内.
func validateArtifactName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}

	return nil
}
