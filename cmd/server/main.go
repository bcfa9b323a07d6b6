package main

import (
	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/config"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/logger"
	"github.com/newsdesk/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// 可选的超级管理员引导账号
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword, db.RoleSuperAdmin); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure super root user")
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg.SessionSecret, log)
	log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
