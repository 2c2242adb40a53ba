package vault

import "errors"

// 引用类错误：对不存在的标识操作返回带类型的哨兵错误，调用方用 errors.Is 匹配.
var (
	// ErrResultNotFound 目录中不存在该 result_id（或不属于该用户）.
	ErrResultNotFound = errors.New("result not found")
	// ErrArtifactNotFound 结果下不存在该名字的制品.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrInvalidArtifactName 逻辑文件名为空或含路径分隔符.
	ErrInvalidArtifactName = errors.New("invalid artifact name")
)
