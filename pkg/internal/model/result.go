// Package model 定义目录数据库模型：results 与 artifacts 两张表，
// 记录每次分析运行的结果及其制品元数据，制品字节本身存放在存储后端.
package model

import (
	"time"
)

// Result 结果模型：一个用户的一次分析运行产出.
// 结果行先于任何引用它的制品行存在；删除结果时整体销毁
// （结果行、全部制品行、全部制品字节），不存在部分删除.
type Result struct {
	// 结果标识，ULID，可按创建时间排序
	ResultID string `gorm:"primaryKey;size:64" json:"result_id"`
	// 用户名或租户标识，所有操作按该键作用域化
	UserID string `gorm:"size:255;index;index:idx_results_user_created,priority:1" json:"user_id"`
	// 创建时间，创建时赋值一次，之后不可变
	CreatedAt time.Time `gorm:"index:idx_results_user_created,priority:2" json:"created_at"`
	// 调用方提供的元数据文档，JSON 文本原样存储，从不解释
	MetadataJSON string `gorm:"type:text" json:"metadata_json"`
	// 终结时附加的摘要文档；终结前为 NULL
	SummaryJSON *string `gorm:"type:text" json:"summary_json,omitempty"`
	// 制品从属关系，结果删除时级联删除制品行
	Artifacts []Artifact `gorm:"foreignKey:ResultID;references:ResultID;constraint:OnDelete:CASCADE" json:"artifacts,omitempty"`
}

// Artifact 制品模型：附属于唯一结果的一个命名字节块.
// 同名制品的重复写入会覆盖后端字节但仍追加一条新目录行（写日志设计），
// 按名读取时取最新一条.
type Artifact struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ResultID string `gorm:"size:64;index;not null" json:"result_id"`
	// 调用方提供的逻辑文件名，在所属结果内足够唯一即可
	Name string `gorm:"size:512;index" json:"name"`
	// 后端定位符：本地后端为文件绝对路径，对象存储后端为 s3://bucket/key，
	// 是此后重新读取或删除该字节块所需的唯一句柄
	URI         string `gorm:"size:1024" json:"uri"`
	ContentType string `gorm:"size:255"  json:"content_type"`
	// 写入时按内容字节长度计算一次，之后从不重算
	Size         int64  `gorm:"index"     json:"size"`
	MetadataJSON string `gorm:"type:text" json:"metadata_json"`
}

// Models 返回目录需要迁移的全部模型，供 AutoMigrate 使用.
func Models() []any {
	return []any{&Result{}, &Artifact{}}
}
