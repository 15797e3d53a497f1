// File: internal/dto/login_state_response.go
package dto

// LoginStateResponse 登入畫面目前的狀態，呈現層依此渲染
// swagger:model dto.LoginStateResponse
type LoginStateResponse struct {
	// 目前畫面，/ 或 /dashboard
	View  string `json:"view" example:"/"`
	Phase string `json:"phase" example:"idle"`

	Submitting      bool   `json:"submitting" example:"false"`
	LastError       string `json:"last_error,omitempty" example:"Login failed. Please try again."`
	PasswordVisible bool   `json:"password_visible" example:"false"`
	RememberMe      bool   `json:"remember_me" example:"false"`
	CanSubmit       bool   `json:"can_submit" example:"true"`

	// 上次送出時輸入的帳號，失敗後保留
	Username string `json:"username,omitempty" example:"alice"`
	// 欄位錯誤，key 為 identifier 或 secret
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}
