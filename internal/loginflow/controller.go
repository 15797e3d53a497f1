// Package loginflow coordinates one login screen: validation, a single in-flight
// session login, error surfacing and the redirect guard.
//
// All state belongs to one event-loop goroutine per Controller. Public methods
// hand work to that loop; session responses and signal changes are posted back
// to it as events, so nothing else ever touches the state.
package loginflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"login-flow/internal/credential"
	"login-flow/internal/navigator"
	"login-flow/internal/session"
	"login-flow/internal/worker"

	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// attempt outcomes reported to the Recorder
const (
	outcomeInvalid  = "invalid"
	outcomeIgnored  = "ignored"
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Recorder 接收流程指標，*metrics.FlowMetrics 即為實作
type Recorder interface {
	ObserveAttempt(outcome string)
	ObserveLogin(outcome string, d time.Duration)
	ObserveNavigation(route string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAttempt(string)              {}
func (nopRecorder) ObserveLogin(string, time.Duration) {}
func (nopRecorder) ObserveNavigation(string)           {}

// Option 設定 Controller
type Option func(*Controller)

// WithLogger 設定 logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithPool 以共用的 worker.Pool 執行登入呼叫；未設定時 Controller 自建單一 worker
func WithPool(p worker.Pool) Option {
	return func(c *Controller) { c.pool = p }
}

// WithTimeout 單次登入呼叫的逾時，<= 0 表示不設逾時
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithRecorder 設定指標收集
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithValidator 替換帳密驗證器
func WithValidator(v *credential.Validator) Option {
	return func(c *Controller) { c.validator = v }
}

type lifecycle int

const (
	lifeNew lifecycle = iota
	lifeMounted
	lifeClosed
)

// Controller 登入流程狀態機
type Controller struct {
	svc       session.Service
	nav       navigator.Navigator
	pool      worker.Pool
	ownPool   bool
	validator *credential.Validator
	log       *slog.Logger
	rec       Recorder
	timeout   time.Duration
	now       func() time.Time

	lifeMu  sync.RWMutex
	life    lifecycle
	ctx     context.Context
	events  chan func()
	done    chan struct{}
	stopped chan struct{}

	// 以下欄位只在事件迴圈中讀寫
	proj      Projection
	attempt   string
	navigated bool
	unwatch   func()

	mu        sync.RWMutex
	snapshot  Projection
	nextWatch int
	watchers  map[int]func(Projection)
}

// New 建立尚未掛載的 Controller
func New(svc session.Service, nav navigator.Navigator, opts ...Option) *Controller {
	c := &Controller{
		svc:      svc,
		nav:      nav,
		log:      slog.Default(),
		rec:      nopRecorder{},
		timeout:  defaultTimeout,
		now:      time.Now,
		events:   make(chan func()),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		watchers: make(map[int]func(Projection)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = credential.New()
	}
	if c.pool == nil {
		c.pool = worker.NewPool(1)
		c.ownPool = true
	}
	return c
}

// Mount 重設狀態、訂閱會話狀態並啟動事件迴圈
// 若會話已是登入狀態，會在回傳前就要求導向落地頁
func (c *Controller) Mount(ctx context.Context) error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	switch c.life {
	case lifeMounted:
		return ErrAlreadyMounted
	case lifeClosed:
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.proj = Projection{Phase: PhaseIdle}

	// 先訂閱再檢查，避免漏掉兩者之間的轉換；迴圈尚未啟動，這裡可以直接改狀態
	c.unwatch = c.svc.Watch(func(sig session.Signal) {
		c.post(func() { c.onSignal(sig) })
	})
	c.onSignal(c.svc.Signal())
	c.publish()

	c.life = lifeMounted
	go c.loop()
	return nil
}

// Close 卸載 Controller；之後抵達的登入結果與會話變化都會被丟棄
// 不可在 Watch 的 callback 中呼叫
func (c *Controller) Close() {
	c.lifeMu.Lock()
	prev := c.life
	c.life = lifeClosed
	c.lifeMu.Unlock()
	if prev == lifeClosed {
		return
	}

	close(c.done)
	if prev == lifeMounted {
		<-c.stopped
	} else {
		c.teardown()
	}
	if c.ownPool {
		// 進行中的登入不會被取消，不等它結束
		go c.pool.Stop()
	}
}

func (c *Controller) loop() {
	defer close(c.stopped)
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.done:
			c.teardown()
			return
		}
	}
}

func (c *Controller) teardown() {
	if c.unwatch != nil {
		c.unwatch()
		c.unwatch = nil
	}
	c.attempt = ""
	c.proj.Phase = PhaseClosed
	c.proj.State.Submitting = false
	c.publish()

	c.mu.Lock()
	c.watchers = map[int]func(Projection){}
	c.mu.Unlock()
}

// post 非同步地把事件交給迴圈；Controller 關閉後直接丟棄
func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

// do 在迴圈中執行 fn 並等待完成
func (c *Controller) do(fn func()) error {
	c.lifeMu.RLock()
	life := c.life
	c.lifeMu.RUnlock()
	switch life {
	case lifeNew:
		return ErrNotMounted
	case lifeClosed:
		return ErrClosed
	}

	ack := make(chan struct{})
	select {
	case c.events <- func() { fn(); close(ack) }:
	case <-c.done:
		return ErrClosed
	}
	select {
	case <-ack:
		return nil
	case <-c.stopped:
		return ErrClosed
	}
}

// Projection 目前狀態的快照
func (c *Controller) Projection() Projection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Watch 訂閱狀態變化；fn 在事件迴圈中執行，不可阻塞，也不可同步呼叫 Controller 的方法
func (c *Controller) Watch(fn func(Projection)) (cancel func()) {
	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.watchers, id)
			c.mu.Unlock()
		})
	}
}

func (c *Controller) publish() {
	c.mu.Lock()
	c.snapshot = c.proj
	snap := c.snapshot
	fns := make([]func(Projection), 0, len(c.watchers))
	for _, fn := range c.watchers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Submit 驗證輸入，通過後送出登入請求
// 已有請求進行中時回傳 SubmitIgnored 且不產生任何效果
func (c *Controller) Submit(in credential.Input) (SubmitStatus, error) {
	var status SubmitStatus
	err := c.do(func() { status = c.submit(in) })
	return status, err
}

func (c *Controller) submit(in credential.Input) SubmitStatus {
	if c.proj.State.Submitting || c.proj.Phase == PhaseAuthenticated {
		c.rec.ObserveAttempt(outcomeIgnored)
		return SubmitIgnored
	}

	res := c.validator.Validate(in)
	// 快照只保留欄位錯誤，密碼不進入 Projection
	c.proj.Validation = credential.Result{Errors: res.Errors}
	c.proj.Identifier = in.Identifier
	if !res.Valid() {
		c.rec.ObserveAttempt(outcomeInvalid)
		c.publish()
		return SubmitInvalid
	}

	id := uuid.NewString()
	c.attempt = id
	c.proj.Phase = PhaseSubmitting
	c.proj.State.Submitting = true
	c.proj.State.LastError = ""
	c.proj.State.RememberMe = res.Credential.RememberMe
	c.publish()

	cred := res.Credential
	ctx := c.ctx
	c.log.Info("login attempt started", "attempt_id", id, "identifier", cred.Identifier, "remember_me", cred.RememberMe)

	err := c.pool.Submit(func() {
		start := c.now()
		result, err := c.callLogin(ctx, cred)
		elapsed := c.now().Sub(start)
		c.post(func() { c.resolve(id, result, err, elapsed) })
	})
	if err != nil {
		c.log.Error("login attempt not scheduled", "attempt_id", id, "error", err)
		c.resolve(id, session.Result{}, err, 0)
	}
	return SubmitStarted
}

// callLogin 是唯一的暫停點；會話服務 panic 也視為非預期錯誤
func (c *Controller) callLogin(ctx context.Context, cred credential.Credential) (res session.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session service panicked: %v", r)
		}
	}()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.svc.Login(ctx, cred.Identifier, cred.Secret, session.WithRememberMe(cred.RememberMe))
}

func (c *Controller) resolve(id string, res session.Result, err error, elapsed time.Duration) {
	outcome := outcomeSuccess
	switch {
	case err != nil:
		outcome = outcomeFailed
	case !res.Success:
		outcome = outcomeRejected
	}
	c.rec.ObserveLogin(outcome, elapsed)

	if id != c.attempt {
		// 已被會話狀態取代（例如其他來源先完成登入）
		c.log.Debug("stale login result dropped", "attempt_id", id, "outcome", outcome)
		return
	}
	c.attempt = ""

	switch outcome {
	case outcomeSuccess:
		c.log.Info("login succeeded", "attempt_id", id, "elapsed", elapsed)
		c.enterAuthenticated()
	case outcomeRejected:
		msg := res.Error
		if msg == "" {
			msg = MessageLoginFailed
		}
		c.log.Info("login rejected", "attempt_id", id, "reason", msg)
		c.fail(msg)
	default:
		c.log.Warn("login failed unexpectedly", "attempt_id", id, "error", err)
		c.fail(MessageUnexpected)
	}
}

func (c *Controller) fail(msg string) {
	c.proj.Phase = PhaseIdle
	c.proj.State.Submitting = false
	c.proj.State.LastError = msg
	c.publish()
}

// enterAuthenticated 每段登入期間只導向一次
func (c *Controller) enterAuthenticated() {
	if c.navigated {
		return
	}
	c.navigated = true
	c.attempt = ""
	c.proj.Phase = PhaseAuthenticated
	c.proj.State.Submitting = false
	c.publish()

	c.rec.ObserveNavigation(string(navigator.RouteDashboard))
	c.nav.GoTo(navigator.RouteDashboard)
}

func (c *Controller) onSignal(sig session.Signal) {
	if c.proj.Phase == PhaseClosed {
		return
	}
	if sig.IsAuthenticated {
		c.enterAuthenticated()
		return
	}
	if c.proj.Phase == PhaseAuthenticated {
		// 會話結束，回到全新的登入畫面
		c.log.Info("session ended, login flow reset")
		c.navigated = false
		c.proj = Projection{Phase: PhaseIdle}
		c.publish()

		c.rec.ObserveNavigation(string(navigator.RouteLogin))
		c.nav.GoTo(navigator.RouteLogin)
	}
}

// TogglePasswordVisibility 切換密碼是否以明文顯示
func (c *Controller) TogglePasswordVisibility() error {
	return c.do(func() {
		c.proj.State.PasswordVisible = !c.proj.State.PasswordVisible
		c.publish()
	})
}

// SetRememberMe 設定「記住我」，實際效果由會話服務決定
func (c *Controller) SetRememberMe(v bool) error {
	return c.do(func() {
		if c.proj.State.RememberMe == v {
			return
		}
		c.proj.State.RememberMe = v
		c.publish()
	})
}
