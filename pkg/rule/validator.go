// Package rule 基于 go-playground/validator 封装本服务的结构体与字段校验.
package rule

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

// registerAliases 注册服务内通用的校验别名.
// userid：调用方标识，目前约定为邮箱格式，改约定时只改这里.
func registerAliases(v *validator.Validate) {
	v.RegisterAlias("userid", "required,email")
}

// initValidator 尝试复用 gin 的 validator 引擎；若不可用则新建，并统一 tag 名与别名.
func initValidator() {
	if engine := binding.Validator.Engine(); engine != nil {
		if v, ok := engine.(*validator.Validate); ok {
			inst = v
			inst.SetTagName("rule")
			registerAliases(inst)

			return
		}
	}

	inst = validator.New()
	inst.SetTagName("rule")
	registerAliases(inst)
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 代理 RegisterValidation，确保已初始化.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidationErrors 是展开后的校验错误字典，键为字段名，值为未通过的规则.
type ValidationErrors map[string]string

// Errors 将校验错误展开为 ValidationErrors，非 validator 错误返回 nil.
func Errors(err error) ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(ValidationErrors, len(verrs))

	for _, fe := range verrs {
		reason := fe.ActualTag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}

		out[fe.Field()] = reason
	}

	return out
}

// ValidateStruct 对结构体执行完整校验，返回原始 error（可用 Errors 展开）.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 包装 RegisterAlias，便于注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}
