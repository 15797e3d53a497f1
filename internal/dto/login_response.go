// File: internal/dto/login_response.go
package dto

import "time"

// LoginResponse 認證伺服器 /api/auth/login 的成功回應；ExpiresAt 可能缺省
// swagger:model dto.LoginResponse
type LoginResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOi..."`
	ExpiresAt   time.Time `json:"expires_at,omitempty" example:"2025-05-09T15:04:05Z07:00"`
}
