// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/resultvault/pkg/configs"
)

var (
	// cfgPath 配置文件或其所在目录，默认当前目录.
	cfgPath string
	// debug 控制部分子命令输出额外调试信息.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "resultvault",
		Short: "per-user storage for analysis results and their artifacts",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configs.InitConfig(cfgPath)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print extra debug output")

	registerServeCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
	registerRetentionCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
