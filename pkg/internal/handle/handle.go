// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/resultvault/pkg/rule"
)

func checkUser(c *gin.Context) (string, error) {
	// 提取用户名：Header 优先 -> query 参数 -> 默认 test-user（便于测试）
	user := c.GetHeader("X-User")
	if user == "" {
		user = c.Query("user")
	}
	// 测试默认值，不为 Debug 或者 Test 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	// 用户标识按 userid 别名（邮箱格式）校验
	if err := rule.ValidateVar(user, "userid"); err != nil {
		return "", err
	}

	return user, nil
}
