// File: internal/dto/ping_response.go
package dto

// PingResponse 健康檢查回應模型
// swagger:model dto.PingResponse
type PingResponse struct {
	// 回應訊息
	Message         string `json:"message" example:"pong"`
	IsAuthenticated bool   `json:"is_authenticated" example:"false"`
	IsLoading       bool   `json:"is_loading" example:"false"`
}
