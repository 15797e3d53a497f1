// File: internal/dto/http_error.go
package dto

// HTTPError 全域錯誤響應模型，認證伺服器與本服務共用
// swagger:model dto.HTTPError
type HTTPError struct {
	// message 錯誤描述
	Message string `json:"message"`
}
