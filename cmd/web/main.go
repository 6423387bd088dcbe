package main

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"rcb-marathon/pkg/common/clock"
	"rcb-marathon/pkg/common/config"
	eventmodel "rcb-marathon/pkg/core/event/model"
	eventdao "rcb-marathon/pkg/core/event/repository/dao/impl"
	eventservice "rcb-marathon/pkg/core/event/service"
	regmodel "rcb-marathon/pkg/core/registration/model"
	regdao "rcb-marathon/pkg/core/registration/repository/dao/impl"
	regservice "rcb-marathon/pkg/core/registration/service"
	"rcb-marathon/pkg/core/session"
	usermodel "rcb-marathon/pkg/core/user/model"
	userdao "rcb-marathon/pkg/core/user/repository/dao/impl"
	userservice "rcb-marathon/pkg/core/user/service"
	"rcb-marathon/pkg/web/handler"
	"rcb-marathon/pkg/web/router"
)

func main() {
	// 初始化配置
	cfg := config.Load()
	if cfg.IsProd() {
		hlog.SetLevel(hlog.LevelInfo)
	} else {
		hlog.SetLevel(hlog.LevelDebug)
	}

	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		hlog.Fatalf("Failed to initialize database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		hlog.Fatalf("Failed to get database handle: %v", err)
	}

	if cfg.Database.AutoMigrate {
		for _, migrate := range []func() error{
			func() error { return usermodel.AutoMigrate(db) },
			func() error { return eventmodel.AutoMigrate(db) },
			func() error { return regmodel.AutoMigrate(db) },
		} {
			if err := migrate(); err != nil {
				hlog.Fatalf("Failed to migrate database: %v", err)
			}
		}
	}

	clk := clock.NewSystem()

	// 注入到DAO层与服务层
	users := userservice.NewUserService(userdao.NewGormUserRepository(db), cfg.Account.AdminEmails)
	events := eventservice.NewEventService(eventdao.NewGormEventRepository(db), clk)
	registrations := regservice.NewRegistrationService(regdao.NewGormRegistrationRepository(db), events, clk)

	sessions, err := session.NewManager(cfg.Middleware.JWT, clk)
	if err != nil {
		hlog.Fatalf("Failed to initialize sessions: %v", err)
	}

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Middleware.Security.MaxBodySize)),
	)

	// 注册路由
	err = router.RegisterAPIs(h, cfg, router.Dependencies{
		Users:         users,
		Events:        events,
		Registrations: registrations,
		Sessions:      sessions,
		HealthChecks: []handler.ComponentCheck{
			{Name: "database", IsCore: true, Check: func(ctx context.Context) error { return sqlDB.PingContext(ctx) }},
		},
	})
	if err != nil {
		hlog.Fatalf("Failed to register routes: %v", err)
	}

	// 启动服务
	h.Spin()
}
