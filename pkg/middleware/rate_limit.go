package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/resultvault/pkg/configs"
)

// RateLimitMiddleware 返回一个基于配置的限流中间件.
// 读写请求分别计费：上传、删除等写操作使用独立于读操作的配额.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	mode, headerName := cfg.KeyMode()
	writeRPS, writeBurst := cfg.WriteLimits()

	newLimiter := func(write bool) *rate.Limiter {
		if write {
			return rate.NewLimiter(rate.Limit(writeRPS), writeBurst)
		}

		return rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}

	// 全局 limiter
	if mode == configs.RateLimitKeyGlobal {
		read, write := newLimiter(false), newLimiter(true)

		return func(c *gin.Context) {
			l := read
			if isWriteMethod(c.Request.Method) {
				l = write
			}

			if !l.Allow() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
				return
			}

			c.Next()
		}
	}

	// 多键 limiter，读写分开计费
	var (
		mu       sync.Mutex
		limiters = map[string]*rate.Limiter{}
	)

	// 获取限流器
	getLimiter := func(key string, write bool) *rate.Limiter {
		if write {
			key = "w:" + key
		} else {
			key = "r:" + key
		}

		mu.Lock()
		defer mu.Unlock()

		if l, ok := limiters[key]; ok {
			return l
		}

		l := newLimiter(write)
		limiters[key] = l

		return l
	}

	// 后台清理闲置 limiter（简单实现）
	go func() {
		const (
			cleanupInterval   = 10 * time.Minute
			maxLimiterEntries = 10000
		)

		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			mu.Lock()
			// 简化：不做逐个访问时间统计，仅在 map 较大时重置
			if len(limiters) > maxLimiterEntries { // 粗略的上限
				limiters = map[string]*rate.Limiter{}
			}

			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		var key string
		if mode == configs.RateLimitKeyHeader { // 按请求头
			key = c.GetHeader(headerName)
		}

		if key == "" { // IP 维度，或请求头缺失时的回退
			key = clientIP(c)
		}

		if key == "" {
			key = "unknown"
		}
		// 获取对应的 limiter 并检查
		if !getLimiter(key, isWriteMethod(c.Request.Method)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "rate limit exceeded, request too frequent, please try again later"})

			return
		}

		c.Next()
	}
}

// isWriteMethod 判断是否为会修改存储内容的请求方法.
func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}

	return false
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		// 进一步尝试从 RemoteAddr
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = c.Request.RemoteAddr
		}
	}

	return ip
}
