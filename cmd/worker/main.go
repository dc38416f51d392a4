package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sysu-ecnc-dev/evo-islands/internal/config"
	"github.com/sysu-ecnc-dev/evo-islands/internal/worker"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 启动 worker 主循环
	 **********************************************/
	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("收到退出信号，正在停止 worker...")
		cancel()
	}()

	w := worker.NewWorker(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))

	if err := w.Run(ctx); err != nil {
		switch {
		case errors.Is(err, worker.ErrVersionMismatch):
			// 版本不匹配时用非零退出码退出，由进程管理器用新版本重新拉起
			logger.Error("协议版本不匹配，worker 即将退出", "error", err)
			os.Exit(1)
		case errors.Is(err, context.Canceled):
			logger.Info("worker 已停止")
		default:
			logger.Error("worker 异常退出", "error", err)
			os.Exit(1)
		}
	}
}
