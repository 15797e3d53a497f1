// File: internal/handler/ping.go
package handler

import (
	"net/http"

	"login-flow/internal/dto"
	"login-flow/internal/session"

	"github.com/labstack/echo/v4"
)

// PingHandler 健康檢查，順便回報目前的會話狀態
// @Summary     Health Check
// @Description 回傳 pong 與會話服務的 is_authenticated / is_loading
// @Tags        health
// @Produce     json
// @Success     200 {object} dto.PingResponse
// @Router      /ping [get]
func PingHandler(svc session.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		sig := svc.Signal()
		return c.JSON(http.StatusOK, dto.PingResponse{
			Message:         "pong",
			IsAuthenticated: sig.IsAuthenticated,
			IsLoading:       sig.IsLoading,
		})
	}
}
