package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/resultvault/pkg/internal/model"
)

const (
	hoursPerDay = 24
	bytesPerMB  = 1 << 20
)

// Policy 每用户保留策略.三个阈值相互独立，零值表示该阈值不启用.
type Policy struct {
	// MaxResults 保留的最大结果数，超出部分按最旧优先删除
	MaxResults int
	// MaxAgeDays 结果的最长保留天数
	MaxAgeDays int
	// MaxStorageMB 制品总字节预算，单位 MB
	MaxStorageMB int64
}

// Enabled 是否有任一阈值生效.
func (p Policy) Enabled() bool {
	return p.MaxResults > 0 || p.MaxAgeDays > 0 || p.MaxStorageMB > 0
}

// maxBytes 字节预算，未配置返回 0.
func (p Policy) maxBytes() int64 {
	return p.MaxStorageMB * bytesPerMB
}

// Report 一次保留执行的产出.
type Report struct {
	UserID string `json:"user_id"`
	// Examined 规划时快照中的结果数
	Examined int `json:"examined"`
	// Deleted 实际删除的 result_id，按 created_at 升序
	Deleted []string `json:"deleted,omitempty"`
	// BytesFreed 目录口径释放的制品字节
	BytesFreed int64 `json:"bytes_freed"`
	// FreedByResult 每个被删结果释放的字节数，键为 result_id
	FreedByResult map[string]int64 `json:"freed_by_result,omitempty"`
	// Orphans 目录行已删但 blob 删除失败的数量
	Orphans int `json:"orphans,omitempty"`
}

// resultUsage 保留规划的输入行：一个结果与它的目录口径字节数.
type resultUsage struct {
	ResultID  string
	CreatedAt time.Time
	Bytes     int64
}

// EnforceRetention 对用户执行保留策略.幂等：没有新写入时紧接着的
// 第二次调用不会再删除任何结果.规划基于结果清单的一次快照，
// 规划期间并发创建的结果留给下一次执行.
func (v *Vault) EnforceRetention(ctx context.Context, userID string) (Report, error) {
	report := Report{UserID: userID}

	if !v.policy.Enabled() {
		return report, nil
	}

	rows, err := v.resultUsages(ctx, userID)
	if err != nil {
		return report, err
	}

	report.Examined = len(rows)

	for _, rid := range planRetention(v.policy, rows, v.now()) {
		freed, orphans, err := v.deleteResult(ctx, userID, rid)
		// 快照之后已被并发删除的结果直接跳过
		if errors.Is(err, ErrResultNotFound) {
			continue
		}

		if err != nil {
			return report, fmt.Errorf("retention delete %s: %w", rid, err)
		}

		if report.FreedByResult == nil {
			report.FreedByResult = make(map[string]int64)
		}

		report.Deleted = append(report.Deleted, rid)
		report.BytesFreed += freed
		report.FreedByResult[rid] = freed
		report.Orphans += orphans
	}

	return report, nil
}

// planRetention 计算应删除的结果集合，返回按 created_at 升序的 result_id.
// 三个阈值合并为同一个删除集：年龄超限的先标记，数量超限再标记最旧的溢出
// 部分，字节超预算时按最旧优先继续标记未标记的结果，已标记结果的字节视为
// 已经回收.
func planRetention(policy Policy, rows []resultUsage, now time.Time) []string {
	if !policy.Enabled() || len(rows) == 0 {
		return nil
	}

	marked := make(map[string]bool, len(rows))

	if policy.MaxAgeDays > 0 {
		cutoff := now.Add(-time.Duration(policy.MaxAgeDays) * hoursPerDay * time.Hour)
		for _, r := range rows {
			if r.CreatedAt.Before(cutoff) {
				marked[r.ResultID] = true
			}
		}
	}

	if policy.MaxResults > 0 && len(rows) > policy.MaxResults {
		for _, r := range rows[:len(rows)-policy.MaxResults] {
			marked[r.ResultID] = true
		}
	}

	if budget := policy.maxBytes(); budget > 0 {
		var remaining int64

		for _, r := range rows {
			if !marked[r.ResultID] {
				remaining += r.Bytes
			}
		}

		// 按最旧优先补标，直到未标记部分回到预算内，只标必要的最小前缀
		for _, r := range rows {
			if remaining <= budget {
				break
			}

			if marked[r.ResultID] {
				continue
			}

			marked[r.ResultID] = true
			remaining -= r.Bytes
		}
	}

	out := make([]string, 0, len(marked))

	for _, r := range rows {
		if marked[r.ResultID] {
			out = append(out, r.ResultID)
		}
	}

	return out
}

// resultUsages 返回用户全部结果及其字节数，按 created_at 升序.
func (v *Vault) resultUsages(ctx context.Context, userID string) ([]resultUsage, error) {
	var rows []resultUsage

	err := v.db.WithContext(ctx).Model(&model.Result{}).
		Select("results.result_id AS result_id, results.created_at AS created_at, COALESCE(SUM(artifacts.size),0) AS bytes").
		Joins("LEFT JOIN artifacts ON artifacts.result_id = results.result_id").
		Where("results.user_id = ?", userID).
		Group("results.result_id, results.created_at").
		Order("results.created_at ASC, results.result_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load result usage for %s: %w", userID, err)
	}

	return rows, nil
}
