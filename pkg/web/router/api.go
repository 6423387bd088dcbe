package router

import (
	"fmt"

	"github.com/cloudwego/hertz/pkg/app/server"

	"rcb-marathon/pkg/common/config"
	"rcb-marathon/pkg/web/handler"
	"rcb-marathon/pkg/web/middleware"
)

// SessionStore 签发、注销并校验会话
type SessionStore interface {
	handler.SessionIssuer
	middleware.RevocationChecker
}

// Dependencies 路由所需的业务服务
type Dependencies struct {
	Users         handler.UserService
	Events        handler.EventService
	Registrations handler.RegistrationService
	Sessions      SessionStore
	HealthChecks  []handler.ComponentCheck
}

// RegisterAPIs 注册所有API路由
func RegisterAPIs(h *server.Hertz, cfg *config.Config, deps Dependencies) error {
	sessionAuth, err := middleware.NewSessionAuth(&cfg.Middleware.JWT, deps.Sessions)
	if err != nil {
		return fmt.Errorf("init session auth: %w", err)
	}

	// 初始化Handler实例
	healthHandler := handler.NewHealthCheckHandler(deps.HealthChecks...)
	authHandler := handler.NewAuthHandler(deps.Users, deps.Sessions)
	eventHandler := handler.NewEventHandler(deps.Events)
	registrationHandler := handler.NewRegistrationHandler(deps.Registrations)

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
	)

	// 基础接口组
	h.GET("/", healthHandler.Welcome)
	h.GET("/health", healthHandler.AdvancedHealthCheck)

	apiGroup := h.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/login", authHandler.Login)

			// 需要会话的接口
			sessionGroup := authGroup.Group("", sessionAuth.RequireSession()...)
			sessionGroup.GET("/me", authHandler.Me)
			sessionGroup.POST("/logout", authHandler.Logout)
			sessionGroup.PUT("/password", authHandler.ChangePassword)
		}

		apiGroup.GET("/events", eventHandler.ListEvents)
		apiGroup.GET("/events/:eventId", eventHandler.GetEvent)
		apiGroup.GET("/events/:eventId/categories", eventHandler.ListCategories)
		apiGroup.GET("/categories/presets", eventHandler.Presets)

		// 管理端接口
		adminGroup := apiGroup.Group("", sessionAuth.RequireAdmin()...)
		{
			adminGroup.POST("/events", eventHandler.CreateEvent)
			adminGroup.DELETE("/events/:eventId", eventHandler.DeleteEvent)
			adminGroup.POST("/events/:eventId/categories", eventHandler.CreateCategory)
			adminGroup.DELETE("/events/:eventId/categories/:categoryId", eventHandler.DeleteCategory)
		}

		registrationGroup := apiGroup.Group("/registration", sessionAuth.RequireSession()...)
		{
			registrationGroup.POST("", registrationHandler.Create)
			registrationGroup.GET("/:id", registrationHandler.Get)
		}
	}
	return nil
}
