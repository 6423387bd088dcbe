package middleware

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"
	"golang.org/x/time/rate"

	"rcb-marathon/pkg/common/config"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware 为每个请求生成或透传请求ID
func RequestIDMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		id := string(ctx.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Response.Header.Set(RequestIDHeader, id)
		ctx.Next(c)
	}
}

// RequestID 返回当前请求的ID
func RequestID(ctx *app.RequestContext) string {
	return ctx.GetString(requestIDKey)
}

// LoggerMiddleware 结构化的请求日志记录
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | rid=%s | UA=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			RequestID(ctx),
			ctx.GetHeader("User-Agent"),
		)
	}
}

/*
	启动时指定环境变量
	export APP_ENV=production
	go run ./cmd/web
*/

// RecoveryMiddleware 异常捕获，生产环境隐藏堆栈
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] rid=%s %v\n%s", RequestID(ctx), err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, utils.H{
						"success": false,
						"code":    500000,
						"error":   "internal server error",
					})
				} else { // 开发环境显示详细错误
					ctx.AbortWithStatusJSON(500, utils.H{
						"success": false,
						"code":    500000,
						"error":   fmt.Sprintf("%v", err),
						"stack":   strings.Split(stack, "\n"),
					})
				}
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 跨域配置，TrustedDomains 用于放行子域名
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
			AllowOriginFunc: func(origin string) bool {
				for _, domain := range corsConfig.TrustedDomains {
					if strings.HasSuffix(origin, domain) {
						return true
					}
				}
				return false
			},
		},
	)
}

// TimeoutMiddleware 为后续处理器设置截止时间
//
// 处理器在同一 goroutine 中执行，数据库调用随 context 一起取消，
// 响应只由处理器写出一次（超时映射为 503）。
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	if seconds <= 0 {
		seconds = 15
	}
	return timeoutMiddleware(time.Duration(seconds) * time.Second)
}

func timeoutMiddleware(timeout time.Duration) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		timeoutCtx, cancel := context.WithTimeout(c, timeout)
		defer cancel()

		ctx.Next(timeoutCtx)

		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			hlog.CtxWarnf(c, "request timeout path=%s status=%d rid=%s",
				ctx.Path(), ctx.Response.StatusCode(), RequestID(ctx))
		}
	}
}

// RateLimitMiddleware 令牌桶算法限流
func RateLimitMiddleware(limit int, interval time.Duration) app.HandlerFunc {
	limiter := NewTokenBucket(limit, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, utils.H{
				"success": false,
				"code":    429001,
				"error":   "too many requests",
			})
			return
		}
		ctx.Next(c)
	}
}

// TokenBucket 每个 interval 补充 rate 个令牌，初始为满桶
type TokenBucket struct {
	limiter *rate.Limiter
}

func NewTokenBucket(r int, interval time.Duration) *TokenBucket {
	if r <= 0 {
		r = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Every(interval/time.Duration(r)), r),
	}
}

func (tb *TokenBucket) Allow() bool {
	return tb.limiter.Allow()
}

// SecurityCheckMiddleware 全局安全校验中间件
func SecurityCheckMiddleware(security config.SecurityConfig) app.HandlerFunc {
	// 预编译恶意字符正则
	xssRegex := regexp.MustCompile(`(?i)<script.*?>|<\/script>|alert\(|onerror=`)
	sqlInjectRegex := regexp.MustCompile(`(?i)\b(union|select|drop|delete|insert)\b`)

	allowed := make(map[string]bool, len(security.AllowedMethods))
	for _, m := range security.AllowedMethods {
		allowed[strings.ToUpper(m)] = true
	}
	hosts := make(map[string]bool, len(security.AllowedHosts))
	for _, h := range security.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}

	return func(c context.Context, ctx *app.RequestContext) {
		// 防护机制1：检查User-Agent
		if isInvalidUserAgent(ctx) {
			securityResponse(ctx, 400002, "missing required header: User-Agent", 400)
			return
		}

		// 防护机制2：Host 白名单，未配置时不限制
		if len(hosts) > 0 && !hostAllowed(ctx, hosts) {
			securityResponse(ctx, 400003, "host not allowed", 400)
			return
		}

		// 防护机制3：请求体大小限制
		if security.MaxBodySize > 0 && int64(ctx.Request.Header.ContentLength()) > security.MaxBodySize {
			securityResponse(ctx, 413001, "request body exceeds max size", 413)
			return
		}

		// 防护机制4：参数恶意字符检查
		if hasMaliciousContent(ctx, xssRegex, sqlInjectRegex) {
			securityResponse(ctx, 422002, "request contains invalid characters", 422)
			return
		}

		// 防护机制5：检查HTTP方法
		if len(allowed) > 0 && !allowed[string(ctx.Method())] {
			securityResponse(ctx, 405001, "method not allowed", 405)
			return
		}

		ctx.Next(c)
	}
}

func isInvalidUserAgent(ctx *app.RequestContext) bool {
	return len(ctx.GetHeader("User-Agent")) == 0
}

// hostAllowed 比较时忽略端口与大小写
func hostAllowed(ctx *app.RequestContext, hosts map[string]bool) bool {
	host := string(ctx.Request.Header.Host())
	if host == "" {
		host = string(ctx.Host())
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return hosts[strings.ToLower(host)]
}

func hasMaliciousContent(ctx *app.RequestContext, xss *regexp.Regexp, sql *regexp.Regexp) bool {
	var found int32

	check := func(data []byte) bool {
		return xss.Match(data) || sql.Match(data)
	}

	visitor := func(key, value []byte) {
		if atomic.LoadInt32(&found) == 1 {
			return // 已经找到匹配，跳过后续检查
		}
		if check(key) || check(value) {
			atomic.StoreInt32(&found, 1)
		}
	}

	ctx.QueryArgs().VisitAll(visitor)
	if atomic.LoadInt32(&found) == 1 {
		return true
	}

	ctx.PostArgs().VisitAll(visitor)
	return atomic.LoadInt32(&found) == 1
}

// 安全响应统一处理
func securityResponse(ctx *app.RequestContext, code int, msg string, status int) {
	hlog.Warnf("SecurityAlert[code=%d] rid=%s: %s", code, RequestID(ctx), msg)
	ctx.AbortWithStatusJSON(status, utils.H{
		"success": false,
		"code":    code,
		"error":   msg,
	})
}
