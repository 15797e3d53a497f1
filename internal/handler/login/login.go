// File: internal/handler/login/login.go
package login

import (
	"errors"
	"fmt"
	"net/http"

	"login-flow/internal/credential"
	"login-flow/internal/dto"
	"login-flow/internal/loginflow"
	"login-flow/internal/navigator"

	"github.com/labstack/echo/v4"
)

// Flow 登入畫面的操作，*loginflow.Controller 即為實作
type Flow interface {
	Projection() loginflow.Projection
	Submit(in credential.Input) (loginflow.SubmitStatus, error)
	TogglePasswordVisibility() error
	SetRememberMe(v bool) error
}

// Viewer 回報目前所在畫面，*navigator.Tracker 即為實作
type Viewer interface {
	Current() navigator.Route
}

func stateResponse(p loginflow.Projection, view navigator.Route) dto.LoginStateResponse {
	resp := dto.LoginStateResponse{
		View:            string(view),
		Phase:           p.Phase.String(),
		Submitting:      p.State.Submitting,
		LastError:       p.State.LastError,
		PasswordVisible: p.State.PasswordVisible,
		RememberMe:      p.State.RememberMe,
		CanSubmit:       p.CanSubmit(),
		Username:        p.Identifier,
	}
	if len(p.Validation.Errors) > 0 {
		resp.FieldErrors = make(map[string]string, len(p.Validation.Errors))
		for f, msg := range p.Validation.Errors {
			resp.FieldErrors[string(f)] = msg
		}
	}
	return resp
}

// flowError 將 Controller 生命週期錯誤轉成 HTTP 回應
func flowError(c echo.Context, err error) error {
	if errors.Is(err, loginflow.ErrClosed) || errors.Is(err, loginflow.ErrNotMounted) {
		return c.JSON(http.StatusServiceUnavailable, dto.HTTPError{Message: "login flow unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
}

// StateHandler 取得登入畫面目前的狀態
// @Summary     Get login state
// @Description 回傳登入流程的投影（送出中、錯誤訊息、欄位錯誤）與目前畫面
// @Tags        login
// @Produce     json
// @Success     200 {object} dto.LoginStateResponse
// @Router      /login [get]
func StateHandler(flow Flow, views Viewer) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, stateResponse(flow.Projection(), views.Current()))
	}
}

// SubmitHandler 送出帳密
// @Summary     Submit credentials
// @Description 驗證帳密並非同步呼叫會話服務；結果請以 GET /login 查詢
// @Tags        login
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username    formData string false "使用者名稱"
// @Param       password    formData string false "使用者密碼"
// @Param       remember_me formData bool   false "記住我"
// @Success     202 {object} dto.LoginStateResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     409 {object} dto.LoginStateResponse
// @Failure     422 {object} dto.LoginStateResponse
// @Failure     503 {object} dto.HTTPError
// @Router      /login [post]
func SubmitHandler(flow Flow, views Viewer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: fmt.Sprintf("無效的表單資料: %v", err)})
		}

		status, err := flow.Submit(credential.Input{
			Identifier: req.Username,
			Secret:     req.Password,
			RememberMe: req.RememberMe,
		})
		if err != nil {
			return flowError(c, err)
		}

		code := http.StatusAccepted
		switch status {
		case loginflow.SubmitInvalid:
			code = http.StatusUnprocessableEntity
		case loginflow.SubmitIgnored:
			code = http.StatusConflict
		}
		return c.JSON(code, stateResponse(flow.Projection(), views.Current()))
	}
}

// TogglePasswordHandler 切換密碼顯示
// @Summary     Toggle password visibility
// @Tags        login
// @Produce     json
// @Success     200 {object} dto.LoginStateResponse
// @Failure     503 {object} dto.HTTPError
// @Router      /login/password-visibility [post]
func TogglePasswordHandler(flow Flow, views Viewer) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := flow.TogglePasswordVisibility(); err != nil {
			return flowError(c, err)
		}
		return c.JSON(http.StatusOK, stateResponse(flow.Projection(), views.Current()))
	}
}

// RememberMeHandler 設定「記住我」
// @Summary     Set remember me
// @Tags        login
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       remember_me formData bool true "記住我"
// @Success     200 {object} dto.LoginStateResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     503 {object} dto.HTTPError
// @Router      /login/remember-me [put]
func RememberMeHandler(flow Flow, views Viewer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RememberMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: fmt.Sprintf("無效的表單資料: %v", err)})
		}
		if err := flow.SetRememberMe(req.RememberMe); err != nil {
			return flowError(c, err)
		}
		return c.JSON(http.StatusOK, stateResponse(flow.Projection(), views.Current()))
	}
}
