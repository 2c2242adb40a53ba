package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/resultvault/pkg/internal/types"
	"github.com/yeisme/resultvault/pkg/metrics"
	"github.com/yeisme/resultvault/pkg/queue"
)

const (
	// DefaultListLimit 结果列表默认条数.
	DefaultListLimit = 25
	// MaxListLimit 结果列表条数上限.
	MaxListLimit = 100
)

// StartResult 创建一条新的结果记录，元数据文档随行存储.
func (s *VaultService) StartResult(ctx context.Context, user string, req *types.StartResultRequest) (*types.StartResultResponse, error) {
	if user == "" {
		return nil, fmt.Errorf("user required")
	}

	var metadata map[string]any
	if req != nil {
		metadata = req.Metadata
	}

	id, err := s.vault.StartResult(ctx, user, metadata)
	if err != nil {
		return nil, err
	}

	res, err := s.vault.GetResult(ctx, user, id)
	if err != nil {
		return nil, err
	}

	s.publishResultStarted(user, id)

	return &types.StartResultResponse{
		ResultID:  id,
		CreatedAt: res.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// ListResults 按创建时间倒序列出用户的结果.
// limit<=0 用默认值，超过上限截断到上限.
func (s *VaultService) ListResults(ctx context.Context, user string, limit int) (*types.ListResultsResponse, error) {
	if user == "" {
		return nil, fmt.Errorf("user required")
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := s.vault.ListResults(ctx, user, limit)
	if err != nil {
		return nil, err
	}

	out := make([]types.ResultInfo, 0, len(rows))
	for i := range rows {
		out = append(out, resultToInfo(&rows[i]))
	}

	return &types.ListResultsResponse{Results: out, Total: len(out)}, nil
}

// GetResult 返回单个结果详情及其制品清单.
func (s *VaultService) GetResult(ctx context.Context, user, resultID string) (*types.ResultDetail, error) {
	res, err := s.vault.GetResult(ctx, user, resultID)
	if err != nil {
		return nil, err
	}

	arts, err := s.vault.ListArtifacts(ctx, resultID)
	if err != nil {
		return nil, err
	}

	detail := &types.ResultDetail{
		ResultInfo: resultToInfo(res),
		Artifacts:  make([]types.ArtifactInfo, 0, len(arts)),
	}

	for i := range arts {
		detail.Artifacts = append(detail.Artifacts, artifactToInfo(&arts[i]))
	}

	return detail, nil
}

// FinalizeResult 为结果附加摘要文档；摘要为空时是显式跳过，不改库.
func (s *VaultService) FinalizeResult(ctx context.Context, user, resultID string, req *types.FinalizeResultRequest) (*types.FinalizeResultResponse, error) {
	// 归属校验，门面的终结操作只认 result_id
	if _, err := s.vault.GetResult(ctx, user, resultID); err != nil {
		return nil, err
	}

	var summary map[string]any
	if req != nil {
		summary = req.Summary
	}

	if err := s.vault.FinalizeResult(ctx, resultID, summary); err != nil {
		return nil, err
	}

	arts, err := s.vault.ListArtifacts(ctx, resultID)
	if err != nil {
		return nil, err
	}

	finalized := len(summary) > 0
	if finalized {
		s.publishResultFinalized(user, resultID, len(arts))
	}

	return &types.FinalizeResultResponse{
		ResultID:  resultID,
		Finalized: finalized,
		Artifacts: len(arts),
	}, nil
}

// DeleteResult 整体删除一个结果.
func (s *VaultService) DeleteResult(ctx context.Context, user, resultID string) (*types.DeleteResultResponse, error) {
	freed, err := s.vault.DeleteResult(ctx, user, resultID)
	if err != nil {
		return nil, err
	}

	metrics.ResultsDeleted.WithLabelValues(queue.ReasonExplicit).Inc()
	s.publishResultDeleted(user, resultID, queue.ReasonExplicit, freed)

	return &types.DeleteResultResponse{ResultID: resultID, BytesFreed: freed}, nil
}
