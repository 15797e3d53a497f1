package middleware

import (
	"net/http"

	"login-flow/internal/session"

	"github.com/labstack/echo/v4"
)

const ContextSignalKey = "session"

// RequireSession 僅允許已登入的會話通過，並把當下的 Signal 放進 context
func RequireSession(svc session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sig := svc.Signal()
			if !sig.IsAuthenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			c.Set(ContextSignalKey, sig)
			return next(c)
		}
	}
}

// NoStore 禁止快取登入相關回應，避免帳號或錯誤訊息殘留在代理快取
func NoStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return next(c)
	}
}
