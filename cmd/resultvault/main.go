// Package main 启动应用程序
package main

import "github.com/yeisme/resultvault/pkg/cmd"

//	@title			ResultVault API
//	@version		1.0
//	@description	ResultVault 是一个按用户隔离的分析结果存储服务，提供结果目录、制品上传下载、打包导出与保留策略清理等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
