// File: internal/dto/auth_login_request.go
package dto

// AuthLoginRequest 認證伺服器 /api/auth/login 的表單
// swagger:model dto.AuthLoginRequest
type AuthLoginRequest struct {
	Username string `form:"username" validate:"required" example:"alice"`
	Password string `form:"password" validate:"required" example:"Secret123!"`
}
