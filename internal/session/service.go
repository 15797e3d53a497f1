// Package session is the client side of the session service: the contract the
// login flow consumes, plus an HTTP implementation and test doubles.
package session

import (
	"context"
	"sync"
)

// Result 登入結果；Success 為 false 時 Error 可能為空字串
type Result struct {
	Success bool
	Error   string
}

// Signal 會話狀態，由 Service 擁有，登入流程只讀
type Signal struct {
	IsAuthenticated bool
	IsLoading       bool
}

// LoginOptions 單次登入的附加設定
type LoginOptions struct {
	// RememberMe 的實際意義由 Service 決定
	RememberMe bool
}

// LoginOption 設定 LoginOptions
type LoginOption func(*LoginOptions)

// WithRememberMe 要求 Service 記住這次登入
func WithRememberMe(v bool) LoginOption {
	return func(o *LoginOptions) { o.RememberMe = v }
}

// ApplyLoginOptions 合併所有 LoginOption
func ApplyLoginOptions(opts ...LoginOption) LoginOptions {
	var o LoginOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Service 會話服務契約
//
// Login 回傳 error 代表非預期失敗（網路、逾時、伺服器錯誤），
// 帳密被拒絕則以 Result{Success: false} 表示。
// Watch 的 callback 可能在任意 goroutine 執行，不可阻塞。
type Service interface {
	Login(ctx context.Context, identifier, secret string, opts ...LoginOption) (Result, error)
	Logout(ctx context.Context) error
	Signal() Signal
	Watch(fn func(Signal)) (cancel func())
}

// signalHub 保存目前的 Signal 並通知觀察者
type signalHub struct {
	// notifyMu 讓通知依更新順序送出
	notifyMu sync.Mutex

	mu       sync.Mutex
	sig      Signal
	nextID   int
	watchers map[int]func(Signal)
}

func (h *signalHub) current() Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sig
}

func (h *signalHub) watch(fn func(Signal)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers == nil {
		h.watchers = make(map[int]func(Signal))
	}
	id := h.nextID
	h.nextID++
	h.watchers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.watchers, id)
			h.mu.Unlock()
		})
	}
}

// update 修改 Signal，有變化時通知所有觀察者
func (h *signalHub) update(mutate func(*Signal)) {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	h.mu.Lock()
	before := h.sig
	mutate(&h.sig)
	after := h.sig
	fns := make([]func(Signal), 0, len(h.watchers))
	for _, fn := range h.watchers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	if before == after {
		return
	}
	for _, fn := range fns {
		fn(after)
	}
}

// FakeService 測試用 Service，未設定的方法會 panic
type FakeService struct {
	LoginFn  func(ctx context.Context, identifier, secret string, opts LoginOptions) (Result, error)
	LogoutFn func(ctx context.Context) error

	hub signalHub
}

// Login 執行 Fake 設定或 panic
func (f *FakeService) Login(ctx context.Context, identifier, secret string, opts ...LoginOption) (Result, error) {
	if f.LoginFn != nil {
		return f.LoginFn(ctx, identifier, secret, ApplyLoginOptions(opts...))
	}
	panic("unexpected Login")
}

// Logout 執行 Fake 設定，未設定時直接登出
func (f *FakeService) Logout(ctx context.Context) error {
	if f.LogoutFn != nil {
		if err := f.LogoutFn(ctx); err != nil {
			return err
		}
	}
	f.SetSignal(Signal{})
	return nil
}

// Signal 目前狀態
func (f *FakeService) Signal() Signal { return f.hub.current() }

// Watch 訂閱狀態變化
func (f *FakeService) Watch(fn func(Signal)) func() { return f.hub.watch(fn) }

// SetSignal 由測試驅動狀態轉換
func (f *FakeService) SetSignal(sig Signal) {
	f.hub.update(func(s *Signal) { *s = sig })
}
