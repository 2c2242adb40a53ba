package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	ctxPkg "github.com/yeisme/resultvault/pkg/context"
	"github.com/yeisme/resultvault/pkg/internal/jobs"
	"github.com/yeisme/resultvault/pkg/internal/service"
	"github.com/yeisme/resultvault/pkg/internal/storage"
)

var (
	// retentionUser 为空时对目录中的全部用户清扫.
	retentionUser string

	retentionCmd = &cobra.Command{
		Use:   "retention",
		Short: "retention policy commands",
	}

	retentionRunCmd = &cobra.Command{
		Use:   "run",
		Short: "enforce the retention policy once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mgr, err := storage.Init(ctx)
			if err != nil {
				return err
			}

			if retentionUser == "" {
				jobs.RunRetentionSweep(ctx, mgr)

				return nil
			}

			ctx = ctxPkg.WithStorageManager(ctx, mgr)

			rep, err := service.NewVaultService(ctx).EnforceRetention(ctx, retentionUser)
			if err != nil {
				return err
			}

			// 以 JSON 格式打印清扫报告
			b, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}
)

// registerRetentionCommands 注册保留策略相关命令.
func registerRetentionCommands() {
	rootCmd.AddCommand(retentionCmd)
	retentionCmd.AddCommand(retentionRunCmd)

	retentionRunCmd.Flags().StringVarP(&retentionUser, "user", "u", "", "enforce for a single user only")
}
