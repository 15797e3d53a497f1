// File: internal/handler/login/logout.go
package login

import (
	"net/http"

	"login-flow/internal/dto"
	"login-flow/internal/session"

	"github.com/labstack/echo/v4"
)

// LogoutHandler 登出目前的會話
// @Summary     Logout
// @Description 清除會話；登入流程會回到全新的登入畫面
// @Tags        login
// @Produce     json
// @Success     200 {object} dto.PingResponse
// @Failure     500 {object} dto.HTTPError
// @Router      /logout [post]
func LogoutHandler(svc session.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Logout(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "logout failed"})
		}
		sig := svc.Signal()
		return c.JSON(http.StatusOK, dto.PingResponse{
			Message:         "logged out",
			IsAuthenticated: sig.IsAuthenticated,
			IsLoading:       sig.IsLoading,
		})
	}
}
