// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	ctxPkg "github.com/yeisme/resultvault/pkg/context"
	"github.com/yeisme/resultvault/pkg/internal/model"
	"github.com/yeisme/resultvault/pkg/internal/service"
	"github.com/yeisme/resultvault/pkg/internal/storage"
	"github.com/yeisme/resultvault/pkg/log"
	"github.com/yeisme/resultvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:30 对目录中存在结果的所有用户执行一次保留策略清扫
//
// 按需执行仍走 POST /retention/enforce，这里只是夜间兜底.
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:30 保留策略清扫
	_ = sched.AddCron(JobRetentionSweep, CronRetentionSweep, func(ctx context.Context) {
		RunRetentionSweep(ctx, mgr)
	}, baseCtx)

	return nil
}

// RunRetentionSweep 遍历目录中的所有用户，逐个执行保留策略。
// 单个用户失败不阻断其他用户的清扫。CLI 的 retention run 也复用本函数。
func RunRetentionSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobRetentionSweep).Logger()

	// 调用方不一定带着 manager，这里统一注入
	ctx = ctxPkg.WithStorageManager(ctx, mgr)

	users, err := listAllUsers(ctx, mgr)
	if err != nil {
		l.Error().Err(err).Msg("list users failed")
		return
	}

	svc := service.NewVaultService(ctx)

	for _, u := range users {
		rep, e := svc.EnforceRetention(ctx, u)
		if e != nil {
			l.Error().Err(e).Str("user", u).Msg("retention sweep failed")
			continue
		}

		if len(rep.Deleted) > 0 {
			l.Info().Str("user", u).
				Int("examined", rep.Examined).
				Int("deleted", len(rep.Deleted)).
				Int64("bytes_freed", rep.BytesFreed).
				Msg("retention sweep done")
		}
	}
}

// listAllUsers 查询目录中存在结果记录的所有用户。
func listAllUsers(ctx context.Context, mgr *storage.Manager) ([]string, error) {
	if mgr == nil || mgr.GetDBClient() == nil || mgr.GetDBClient().GetDB() == nil {
		return nil, fmt.Errorf("db not initialized")
	}

	dbx := mgr.GetDBClient().GetDB().WithContext(ctx)

	var users []string
	if err := dbx.Model(&model.Result{}).Distinct().Pluck("user_id", &users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
