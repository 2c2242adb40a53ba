// Package service 实现业务逻辑层，位于 HTTP 处理器与结果门面之间：
// 负责归属校验、DTO 映射、领域指标与生命周期事件的尽力发布.
package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/resultvault/pkg/configs"
	ctxPkg "github.com/yeisme/resultvault/pkg/context"
	"github.com/yeisme/resultvault/pkg/internal/model"
	"github.com/yeisme/resultvault/pkg/internal/storage/mq"
	"github.com/yeisme/resultvault/pkg/internal/types"
	"github.com/yeisme/resultvault/pkg/internal/vault"
	nlog "github.com/yeisme/resultvault/pkg/log"
	"github.com/yeisme/resultvault/pkg/queue"
)

// VaultService 结果与制品的业务服务.
type VaultService struct {
	vault    *vault.Vault
	mqClient *mq.Client
}

func NewVaultService(c context.Context) *VaultService {
	v := ctxPkg.GetVault(c)

	// 结果门面是本服务的全部前提，缺失说明初始化顺序错误
	if v == nil {
		nlog.Logger().Fatal().Msg("vault not initialized")
	}

	svc := &VaultService{
		vault:    v,
		mqClient: ctxPkg.GetMQClient(c),
	}

	if svc.mqClient == nil {
		nlog.Logger().Warn().Msg("MQ client not initialized, result events disabled")
	}

	return svc
}

// resultToInfo 目录行转对外视图，解码入库时序列化的文档.
// 文档本就出自本服务的序列化，解码失败时留空该字段而不是让整个读挂掉.
func resultToInfo(r *model.Result) types.ResultInfo {
	info := types.ResultInfo{
		ResultID:  r.ResultID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		Finalized: r.SummaryJSON != nil,
	}

	if r.MetadataJSON != "" {
		_ = sonic.UnmarshalString(r.MetadataJSON, &info.Metadata)
	}

	if r.SummaryJSON != nil && *r.SummaryJSON != "" {
		_ = sonic.UnmarshalString(*r.SummaryJSON, &info.Summary)
	}

	return info
}

func artifactToInfo(a *model.Artifact) types.ArtifactInfo {
	return types.ArtifactInfo{
		Name:        a.Name,
		Size:        a.Size,
		ContentType: a.ContentType,
		URI:         a.URI,
	}
}

// listOwnedArtifacts 先校验结果归属再取制品清单.
// 门面的制品操作以 result_id 为键，归属校验在服务层完成.
func (s *VaultService) listOwnedArtifacts(ctx context.Context, user, resultID string) ([]model.Artifact, error) {
	if _, err := s.vault.GetResult(ctx, user, resultID); err != nil {
		return nil, err
	}

	return s.vault.ListArtifacts(ctx, resultID)
}

// -------------------------- 事件发布（尽力而为） --------------------------

func (s *VaultService) publishResultStarted(user, resultID string) {
	ev := configs.GetConfig().Events
	if s.mqClient == nil || !ev.Enabled || !ev.Result.Started {
		return
	}

	payload := queue.ResultStartedPayload{
		Result: queue.ResultRef{UserID: user, ResultID: resultID},
		Source: "api",
	}

	if err := queue.PublishResultStarted(s.mqClient.GetPublisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("result_id", resultID).Msg("publish result started event failed")
	}
}

func (s *VaultService) publishArtifactStored(user, resultID string, art types.ArtifactInfo) {
	ev := configs.GetConfig().Events
	if s.mqClient == nil || !ev.Enabled || !ev.Result.Stored {
		return
	}

	payload := queue.ArtifactStoredPayload{
		Result: queue.ResultRef{UserID: user, ResultID: resultID},
		Artifact: queue.ArtifactRef{
			Name:        art.Name,
			URI:         art.URI,
			ContentType: art.ContentType,
			Size:        art.Size,
		},
		Source: "api",
	}

	if err := queue.PublishArtifactStored(s.mqClient.GetPublisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("result_id", resultID).Str("name", art.Name).Msg("publish artifact stored event failed")
	}
}

func (s *VaultService) publishResultFinalized(user, resultID string, artifacts int) {
	ev := configs.GetConfig().Events
	if s.mqClient == nil || !ev.Enabled || !ev.Result.Finalized {
		return
	}

	payload := queue.ResultFinalizedPayload{
		Result:    queue.ResultRef{UserID: user, ResultID: resultID},
		Artifacts: artifacts,
	}

	if err := queue.PublishResultFinalized(s.mqClient.GetPublisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("result_id", resultID).Msg("publish result finalized event failed")
	}
}

func (s *VaultService) publishResultDeleted(user, resultID, reason string, bytesFreed int64) {
	ev := configs.GetConfig().Events
	if s.mqClient == nil || !ev.Enabled || !ev.Result.Deleted {
		return
	}

	payload := queue.ResultDeletedPayload{
		Result:     queue.ResultRef{UserID: user, ResultID: resultID},
		Reason:     reason,
		BytesFreed: bytesFreed,
	}

	if err := queue.PublishResultDeleted(s.mqClient.GetPublisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("result_id", resultID).Str("reason", reason).Msg("publish result deleted event failed")
	}
}

func (s *VaultService) publishRetentionEnforced(rep *types.RetentionReport) {
	ev := configs.GetConfig().Events
	if s.mqClient == nil || !ev.Enabled || !ev.Retention.Enforced {
		return
	}

	payload := queue.RetentionEnforcedPayload{
		UserID:     rep.UserID,
		Examined:   rep.Examined,
		Deleted:    rep.Deleted,
		BytesFreed: rep.BytesFreed,
		Orphans:    rep.Orphans,
	}

	if err := queue.PublishRetentionEnforced(s.mqClient.GetPublisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("user", rep.UserID).Msg("publish retention enforced event failed")
	}
}
