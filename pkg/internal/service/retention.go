package service

import (
	"context"
	"fmt"

	"github.com/yeisme/resultvault/pkg/internal/types"
	"github.com/yeisme/resultvault/pkg/metrics"
	"github.com/yeisme/resultvault/pkg/queue"
)

// EnforceRetention 对单个用户执行保留策略，返回执行报告.
// 策略未配置时报告为空且不计入执行指标.
func (s *VaultService) EnforceRetention(ctx context.Context, user string) (*types.RetentionReport, error) {
	if user == "" {
		return nil, fmt.Errorf("user required")
	}

	rep, err := s.vault.EnforceRetention(ctx, user)
	if err != nil {
		return nil, err
	}

	out := &types.RetentionReport{
		UserID:     user,
		Examined:   rep.Examined,
		Deleted:    rep.Deleted,
		BytesFreed: rep.BytesFreed,
		Orphans:    rep.Orphans,
	}

	// 策略未配置时不算一次执行
	if !s.vault.Policy().Enabled() {
		return out, nil
	}

	metrics.RetentionRuns.Inc()
	metrics.RetentionBytesFreed.Add(float64(rep.BytesFreed))
	metrics.ResultsDeleted.WithLabelValues(queue.ReasonRetention).Add(float64(len(rep.Deleted)))

	for _, rid := range rep.Deleted {
		s.publishResultDeleted(user, rid, queue.ReasonRetention, rep.FreedByResult[rid])
	}

	s.publishRetentionEnforced(out)

	return out, nil
}

// PolicyInfo 当前生效的保留策略视图.
func (s *VaultService) PolicyInfo() types.RetentionPolicyInfo {
	p := s.vault.Policy()

	return types.RetentionPolicyInfo{
		MaxResults:   p.MaxResults,
		MaxAgeDays:   p.MaxAgeDays,
		MaxStorageMB: p.MaxStorageMB,
		Enabled:      p.Enabled(),
	}
}
