// File: internal/dto/remember_me_request.go
package dto

// swagger:model dto.RememberMeRequest
type RememberMeRequest struct {
	RememberMe bool `form:"remember_me" json:"remember_me" example:"true"`
}
