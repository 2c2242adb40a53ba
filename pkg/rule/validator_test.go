package rule_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/resultvault/pkg/rule"
)

// policyStruct 模拟保留策略配置结构，用于测试 ValidateStruct.
type policyStruct struct {
	Backend    string `rule:"oneof=local s3"`
	MaxResults int    `rule:"min=0"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	// 有效结构体
	validStruct := policyStruct{Backend: "local", MaxResults: 10}

	err := rule.ValidateStruct(validStruct)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 无效结构体：未知后端
	invalidStruct1 := policyStruct{Backend: "tape", MaxResults: 10}

	err = rule.ValidateStruct(invalidStruct1)
	if err == nil {
		t.Error("Expected error for invalid struct (unknown backend), got nil")
	}

	// 无效结构体：负数阈值
	invalidStruct2 := policyStruct{Backend: "s3", MaxResults: -1}

	err = rule.ValidateStruct(invalidStruct2)
	if err == nil {
		t.Error("Expected error for invalid struct (negative max), got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效 email
	err := rule.ValidateVar("test@example.com", "required,email")
	if err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}

	// 无效 email
	err = rule.ValidateVar("invalid-email", "required,email")
	if err == nil {
		t.Error("Expected error for invalid email, got nil")
	}

	// 有效数字
	err = rule.ValidateVar(25, "gte=18")
	if err != nil {
		t.Errorf("Expected no error for valid number, got %v", err)
	}

	// 无效数字
	err = rule.ValidateVar(15, "gte=18")
	if err == nil {
		t.Error("Expected error for invalid number, got nil")
	}
}

// TestUserIDAlias 测试内置的 userid 别名（邮箱格式）.
func TestUserIDAlias(t *testing.T) {
	if err := rule.ValidateVar("alice@example.com", "userid"); err != nil {
		t.Errorf("Expected no error for valid userid, got %v", err)
	}

	if err := rule.ValidateVar("", "userid"); err == nil {
		t.Error("Expected error for empty userid, got nil")
	}

	if err := rule.ValidateVar("not-an-email", "userid"); err == nil {
		t.Error("Expected error for malformed userid, got nil")
	}
}

// TestErrors 测试校验错误展开为字段字典.
func TestErrors(t *testing.T) {
	invalid := policyStruct{Backend: "tape", MaxResults: -1}

	err := rule.ValidateStruct(invalid)
	if err == nil {
		t.Fatal("Expected error for invalid struct, got nil")
	}

	fields := rule.Errors(err)
	if len(fields) != 2 {
		t.Fatalf("Expected 2 field errors, got %d: %v", len(fields), fields)
	}

	if got := fields["Backend"]; got != "oneof=local s3" {
		t.Errorf("Backend reason = %q, want %q", got, "oneof=local s3")
	}

	if got := fields["MaxResults"]; got != "min=0" {
		t.Errorf("MaxResults reason = %q, want %q", got, "min=0")
	}

	// 非 validator 错误返回 nil
	if fields := rule.Errors(errors.New("boom")); fields != nil {
		t.Errorf("Expected nil for non-validator error, got %v", fields)
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	// 注册自定义验证：检查字符串长度是否为偶数
	err := rule.RegisterValidation("even_length", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return len(str)%2 == 0
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	// 测试有效字符串
	err = rule.ValidateVar("test", "even_length")
	if err != nil {
		t.Errorf("Expected no error for even length string, got %v", err)
	}

	// 测试无效字符串
	err = rule.ValidateVar("test1", "even_length")
	if err == nil {
		t.Error("Expected error for odd length string, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("min_required", "required,min=3")

	// 测试有效字符串
	err := rule.ValidateVar("abc", "min_required")
	if err != nil {
		t.Errorf("Expected no error for valid string with alias, got %v", err)
	}

	// 测试无效字符串
	err = rule.ValidateVar("ab", "min_required")
	if err == nil {
		t.Error("Expected error for invalid string with alias, got nil")
	}
}
