// File: cmd/login/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"login-flow/internal/cache"
	"login-flow/internal/config"
	"login-flow/internal/loginflow"
	"login-flow/internal/session"
	"login-flow/internal/terminal"
	"login-flow/internal/worker"
)

var (
	newRedisClient           = cache.NewRedisClient
	newWorkerPool            = worker.NewPool
	stdin          io.Reader = os.Stdin
	stdout         io.Writer = os.Stdout
	stderr         io.Writer = os.Stderr
	exitFunc                 = os.Exit
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// 終端機只留警告以上的日誌，避免打斷提示
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	svc, closeSession, err := session.Open(cfg, logger, newRedisClient)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer func() {
		if err := closeSession(); err != nil {
			log.Printf("關閉 Redis 連線失敗: %v", err)
		}
	}()

	if err := svc.Restore(ctx); err != nil {
		logger.Warn("restore remembered session failed", "error", err)
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	presenter := terminal.New(stdin, stdout)
	flow := loginflow.New(svc, presenter,
		loginflow.WithLogger(logger),
		loginflow.WithPool(wp),
		loginflow.WithTimeout(cfg.LoginTimeout),
	)
	if err := flow.Mount(ctx); err != nil {
		return fmt.Errorf("掛載登入流程失敗: %v", err)
	}
	defer flow.Close()

	return presenter.Run(ctx, flow)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx); err != nil {
		log.Print(err)
		stop()
		exitFunc(1)
	}
}
