package loginflow

import (
	"errors"

	"login-flow/internal/credential"
)

// 使用者看到的流程層級錯誤訊息
const (
	MessageLoginFailed = "Login failed. Please try again."
	MessageUnexpected  = "An unexpected error occurred. Please try again."
)

var (
	ErrNotMounted     = errors.New("login flow not mounted")
	ErrAlreadyMounted = errors.New("login flow already mounted")
	ErrClosed         = errors.New("login flow closed")
)

// Phase 狀態機的階段；驗證在 Submit 內同步完成，不會被觀察到
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseAuthenticated
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}

// State 登入畫面的暫態，只由 Controller 修改；LastError 為空代表沒有錯誤
type State struct {
	Submitting      bool
	LastError       string
	PasswordVisible bool
	RememberMe      bool
}

// Projection 呈現層渲染所需的全部資料
type Projection struct {
	Phase      Phase
	State      State
	Validation credential.Result
	// Identifier 最近一次送出的帳號，失敗後保留供重新送出
	Identifier string
}

// CanSubmit 是否允許再次送出
func (p Projection) CanSubmit() bool {
	return !p.State.Submitting && p.Phase != PhaseClosed
}

// SubmitStatus Submit 的同步結果
type SubmitStatus int

const (
	// SubmitInvalid 欄位驗證失敗，沒有呼叫會話服務
	SubmitInvalid SubmitStatus = iota
	// SubmitStarted 已送出登入請求，結果以非同步方式反映在 Projection
	SubmitStarted
	// SubmitIgnored 已有請求進行中或已登入，這次呼叫沒有任何效果
	SubmitIgnored
)

func (s SubmitStatus) String() string {
	switch s {
	case SubmitInvalid:
		return "invalid"
	case SubmitStarted:
		return "started"
	case SubmitIgnored:
		return "ignored"
	}
	return "unknown"
}
