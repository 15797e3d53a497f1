// File: internal/dto/login_request.go
package dto

// LoginRequest 登入表單；驗證由登入流程處理，因此不使用 validate tag
// swagger:model dto.LoginRequest
type LoginRequest struct {
	Username   string `form:"username" example:"alice"`
	Password   string `form:"password" example:"Secret123!"`
	RememberMe bool   `form:"remember_me" example:"false"`
}
