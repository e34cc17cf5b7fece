package main

import (
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/weibaohui/readmegen/config"
	"github.com/weibaohui/readmegen/internal/eventbus"
	"github.com/weibaohui/readmegen/internal/handler"
	"github.com/weibaohui/readmegen/internal/pkg/database"
	"github.com/weibaohui/readmegen/internal/pkg/llm"
	"github.com/weibaohui/readmegen/internal/repository"
	"github.com/weibaohui/readmegen/internal/router"
	"github.com/weibaohui/readmegen/internal/service"
	"github.com/weibaohui/readmegen/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	historyRepo := repository.NewHistoryRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// 初始化 Service
	client := llm.NewClient(cfg)
	readmeService := service.NewReadmeService(cfg, client, historyRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, historyRepo)

	// 生成事件：每次生成结果同时落盘一份文件副本
	bus := eventbus.NewBus()
	exporter, err := subscriber.NewFileExporter(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("Failed to create file exporter: %v", err)
	}
	exporter.Register(bus)
	readmeService.SetEventBus(bus)

	// 初始化 Handler
	readmeHandler := handler.NewReadmeHandler(readmeService)
	historyHandler := handler.NewHistoryHandler(readmeService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)

	// 设置路由
	r := router.Setup(cfg, readmeHandler, historyHandler, feedbackHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
