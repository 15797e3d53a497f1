// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"login-flow/internal/handler"
	"login-flow/internal/handler/login"
	"login-flow/internal/metrics"
	"login-flow/internal/middleware"
	"login-flow/internal/session"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, flow login.Flow, views login.Viewer, svc session.Service, gatherer prometheus.Gatherer) {
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(svc))

	// 登入畫面
	api.GET("/login", login.StateHandler(flow, views), middleware.NoStore)
	api.POST("/login", login.SubmitHandler(flow, views), middleware.NoStore)
	api.POST("/login/password-visibility", login.TogglePasswordHandler(flow, views), middleware.NoStore)
	api.PUT("/login/remember-me", login.RememberMeHandler(flow, views), middleware.NoStore)

	// 登出（需登入）
	api.POST("/logout", login.LogoutHandler(svc), middleware.RequireSession(svc))

	e.GET("/metrics", metrics.EchoHandler(gatherer))
}
