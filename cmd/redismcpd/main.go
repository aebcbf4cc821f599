package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"RedisMCP-Go/internal/api"
	"RedisMCP-Go/internal/config"
	"RedisMCP-Go/internal/store"
	"RedisMCP-Go/internal/tool"
	"RedisMCP-Go/pkg/logger"
)

// main 是 Redis 工具守护进程的入口。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("redismcpd 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("REDISMCP_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("configs", "redismcp.yaml")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: cfg.Logging.Outputs,
		Audit: logger.AuditConfig{
			Enabled:    cfg.Logging.Audit.Enabled,
			Path:       cfg.Logging.Audit.Path,
			MaxSizeMB:  cfg.Logging.Audit.MaxSizeMB,
			MaxBackups: cfg.Logging.Audit.MaxBackups,
			MaxAgeDays: cfg.Logging.Audit.MaxAgeDays,
		},
	}); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	client, err := createStoreClient(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.L().Error("关闭存储客户端失败", slog.Any("error", err))
		}
	}()

	logger.L().Info("存储客户端就绪",
		slog.String("driver", cfg.Redis.Driver),
		slog.String("address", cfg.Redis.Address),
	)

	tools := tool.NewService(client)
	server := api.NewServer(cfg.Server.Address, tools)

	logger.L().Info("API 服务启动", slog.String("address", cfg.Server.Address))
	if err := server.Start(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func createStoreClient(cfg *config.Config) (store.Client, error) {
	switch cfg.Redis.Driver {
	case "", "redis":
		return store.NewRedis(store.RedisConfig{
			Address:      cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  time.Duration(cfg.Redis.DialTimeoutSeconds) * time.Second,
			ReadTimeout:  time.Duration(cfg.Redis.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.Redis.WriteTimeoutSeconds) * time.Second,
		})
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.Redis.Driver)
	}
}
