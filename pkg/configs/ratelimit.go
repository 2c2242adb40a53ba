package configs

import (
	"strings"

	"github.com/spf13/viper"
)

// 限流维度取值.
const (
	RateLimitKeyGlobal = "global"
	RateLimitKeyIP     = "ip"
	RateLimitKeyHeader = "header"
)

// 按请求头限流使用 header:<Header-Name> 形式，例如 header:X-User.
const rateLimitKeyHeaderPrefix = RateLimitKeyHeader + ":"

const (
	// 默认速率限制配置.
	DefaultRateLimitEnabled = false
	DefaultRateLimitRPS     = 30.0
	DefaultRateLimitBurst   = 60
	// API 统一以 X-User 标识调用方，默认按用户限流，
	// 单个用户的批量上传不挤占其他用户的配额.
	DefaultRateLimitKey        = "header:X-User"
	DefaultRateLimitWriteRPS   = 10.0
	DefaultRateLimitWriteBurst = 20
)

// RateLimitConfig 速率限制配置.
// 上传、删除等写请求的开销远大于列表、下载，写路径单独设阈值.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`   // 读请求每秒允许数
	Burst   int     `mapstructure:"burst"` // 读请求突发容量
	// Key 选择限流维度：global（全局）、ip（按客户端IP）、header:Header-Name（按请求头，头缺失时回退 IP）
	Key string `mapstructure:"key"`
	// WriteRPS/WriteBurst 对 POST/PUT/PATCH/DELETE 生效，<=0 时沿用 RPS/Burst.
	WriteRPS   float64 `mapstructure:"write_rps"`
	WriteBurst int     `mapstructure:"write_burst"`
}

// KeyMode 返回规范化的限流维度与请求头名（仅 header 模式非空）.
func (c *RateLimitConfig) KeyMode() (string, string) {
	key := strings.TrimSpace(c.Key)
	mode := strings.ToLower(key)

	switch {
	case strings.HasPrefix(mode, rateLimitKeyHeaderPrefix):
		header := strings.TrimSpace(key[len(rateLimitKeyHeaderPrefix):])
		if header == "" { // 头名缺失时退化为 IP 维度
			return RateLimitKeyIP, ""
		}

		return RateLimitKeyHeader, header
	case mode == "" || mode == RateLimitKeyGlobal:
		return RateLimitKeyGlobal, ""
	default:
		return RateLimitKeyIP, ""
	}
}

// WriteLimits 返回写请求的速率与突发容量，未配置时沿用读阈值.
func (c *RateLimitConfig) WriteLimits() (float64, int) {
	rps, burst := c.WriteRPS, c.WriteBurst
	if rps <= 0 {
		rps = c.RPS
	}

	if burst <= 0 {
		burst = c.Burst
	}

	return rps, burst
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", DefaultRateLimitEnabled)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("rate_limit.key", DefaultRateLimitKey)
	v.SetDefault("rate_limit.write_rps", DefaultRateLimitWriteRPS)
	v.SetDefault("rate_limit.write_burst", DefaultRateLimitWriteBurst)
}
