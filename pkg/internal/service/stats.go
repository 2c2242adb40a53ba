package service

import (
	"context"
	"fmt"

	"github.com/yeisme/resultvault/pkg/internal/types"
)

// StatsService 提供占用统计，复用 VaultService 的依赖.
type StatsService struct{ *VaultService }

func NewStatsService(c context.Context) *StatsService { return &StatsService{NewVaultService(c)} }

// Usage 当前用户的结果数与制品总字节，附带生效中的保留策略.
// 字节数为目录口径：追加式目录按全部行求和，与保留策略同一口径.
func (s *StatsService) Usage(ctx context.Context, user string) (*types.UsageResponse, error) {
	if user == "" {
		return nil, fmt.Errorf("user required")
	}

	u, err := s.vault.Usage(ctx, user)
	if err != nil {
		return nil, err
	}

	return &types.UsageResponse{
		UserID:  user,
		Results: u.Results,
		Bytes:   u.Bytes,
		Policy:  s.PolicyInfo(),
	}, nil
}
