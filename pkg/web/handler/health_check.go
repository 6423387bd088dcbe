package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
)

// ComponentCheck 依赖组件的探活函数
type ComponentCheck struct {
	Name   string
	IsCore bool
	Check  func(ctx context.Context) error
}

type HealthCheckHandler struct {
	checks []ComponentCheck
}

func NewHealthCheckHandler(checks ...ComponentCheck) *HealthCheckHandler {
	return &HealthCheckHandler{checks: checks}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"`
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 逐个探测依赖组件，核心组件异常时返回 503
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(startupTime).Truncate(time.Second).String(),
		Components: make([]ComponentStatus, 0, len(h.checks)),
	}

	for _, check := range h.checks {
		status.Components = append(status.Components, runCheck(ctx, check))
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

// Welcome 根路径欢迎信息
func (h *HealthCheckHandler) Welcome(ctx context.Context, c *app.RequestContext) {
	c.String(200, "Welcome to the RCB Marathon API!")
}

func runCheck(ctx context.Context, check ComponentCheck) ComponentStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := check.Check(checkCtx)
	comp := ComponentStatus{
		Name:    check.Name,
		Status:  "ok",
		IsCore:  check.IsCore,
		Latency: time.Since(start),
	}
	if err != nil {
		comp.Status = "error"
		comp.Error = err.Error()
	}
	return comp
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
