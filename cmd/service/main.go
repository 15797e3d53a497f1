// File: cmd/service/main.go
// @title        Login Flow API
// @version      1.0
// @description  登入流程的 HTTP 呈現層：送出帳密、查詢狀態、切換密碼顯示與記住我
// @host         localhost:8080
// @BasePath     /api
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"login-flow/internal/cache"
	"login-flow/internal/config"
	"login-flow/internal/loginflow"
	"login-flow/internal/metrics"
	"login-flow/internal/navigator"
	"login-flow/internal/router"
	"login-flow/internal/session"
	"login-flow/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	_ "login-flow/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

var (
	newRedisClient = cache.NewRedisClient
	startServer    = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool  = worker.NewPool
	newRegistry    = prometheus.NewRegistry
	exitFunc       = os.Exit
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	svc, closeSession, err := session.Open(cfg, logger, newRedisClient)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer func() {
		if err := closeSession(); err != nil {
			log.Printf("關閉 Redis 連線失敗: %v", err)
		}
	}()

	if err := svc.Restore(context.Background()); err != nil {
		logger.Warn("restore remembered session failed", "error", err)
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	reg := newRegistry()
	nav := navigator.NewTracker(navigator.RouteLogin)
	flow := loginflow.New(svc, nav,
		loginflow.WithLogger(logger),
		loginflow.WithPool(wp),
		loginflow.WithTimeout(cfg.LoginTimeout),
		loginflow.WithRecorder(metrics.NewFlowMetrics("loginflow", reg)),
	)
	if err := flow.Mount(context.Background()); err != nil {
		return fmt.Errorf("掛載登入流程失敗: %v", err)
	}
	defer flow.Close()

	e := echo.New()
	e.Debug = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, flow, nav, svc, reg)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, cfg.ListenAddr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
