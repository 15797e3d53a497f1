// File: internal/terminal/presenter.go
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"login-flow/internal/credential"
	"login-flow/internal/loginflow"
	"login-flow/internal/navigator"

	"golang.org/x/term"
)

const (
	commandShow = ":show"
	commandHide = ":hide"
)

// ErrInputClosed 使用者在登入完成前關閉了輸入
var ErrInputClosed = errors.New("input closed before login completed")

// errNavigated 等待輸入時已導向落地頁
var errNavigated = errors.New("navigated while prompting")

var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
	getState     = term.GetState
	restoreState = term.Restore
)

// Flow 終端機需要的登入流程操作，*loginflow.Controller 即為實作
type Flow interface {
	Projection() loginflow.Projection
	Watch(fn func(loginflow.Projection)) (cancel func())
	Submit(in credential.Input) (loginflow.SubmitStatus, error)
	TogglePasswordVisibility() error
	SetRememberMe(v bool) error
}

// Presenter 以文字介面呈現登入畫面，同時作為 Navigator
type Presenter struct {
	in  *bufio.Reader
	fd  int
	tty bool

	outMu sync.Mutex
	out   io.Writer

	once      sync.Once
	navigated chan struct{}
}

// Option 設定 Presenter
type Option func(*Presenter)

// WithTTY 指定密碼隱藏輸入所用的檔案描述子
func WithTTY(fd int) Option {
	return func(p *Presenter) {
		p.fd = fd
		p.tty = isTerminal(fd)
	}
}

// New 建立 Presenter；in 為終端機時密碼輸入不回顯
func New(in io.Reader, out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		in:        bufio.NewReader(in),
		out:       out,
		navigated: make(chan struct{}),
	}
	if f, ok := in.(*os.File); ok {
		p.fd = int(f.Fd())
		p.tty = isTerminal(p.fd)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GoTo 實作 navigator.Navigator
func (p *Presenter) GoTo(route navigator.Route) {
	if route != navigator.RouteDashboard {
		return
	}
	p.once.Do(func() {
		p.printf("Signed in. Redirecting to %s\n", route)
		close(p.navigated)
	})
}

// Navigated 是否已導向落地頁
func (p *Presenter) Navigated() bool {
	select {
	case <-p.navigated:
		return true
	default:
		return false
	}
}

func (p *Presenter) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// Run 反覆詢問帳密直到登入成功；ctx 結束或輸入關閉時回傳錯誤
func (p *Presenter) Run(ctx context.Context, flow Flow) error {
	updates := make(chan struct{}, 1)
	cancel := flow.Watch(func(loginflow.Projection) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer cancel()

	for !p.Navigated() {
		if err := ctx.Err(); err != nil {
			return err
		}
		in, err := p.prompt(ctx, flow)
		if errors.Is(err, errNavigated) {
			return nil
		}
		if err != nil {
			return err
		}

		status, err := flow.Submit(in)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		switch status {
		case loginflow.SubmitInvalid:
			p.renderFieldErrors(flow.Projection())
			continue
		case loginflow.SubmitIgnored:
			p.printf("A login attempt is already in progress.\n")
		default:
			p.printf("Signing in...\n")
		}

		if err := p.await(ctx, flow, updates); err != nil {
			return err
		}
	}
	return nil
}

// await 等待本次登入結束
func (p *Presenter) await(ctx context.Context, flow Flow, updates <-chan struct{}) error {
	for {
		proj := flow.Projection()
		if proj.Phase == loginflow.PhaseClosed {
			return loginflow.ErrClosed
		}
		if !proj.State.Submitting && proj.Phase != loginflow.PhaseAuthenticated {
			if proj.State.LastError != "" {
				p.printf("Error: %s\n", proj.State.LastError)
			}
			return nil
		}
		select {
		case <-p.navigated:
			return nil
		case <-updates:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Presenter) prompt(ctx context.Context, flow Flow) (credential.Input, error) {
	username, err := p.readLine(ctx, "Username: ")
	if err != nil {
		return credential.Input{}, err
	}
	password, err := p.readSecret(ctx, flow)
	if err != nil {
		return credential.Input{}, err
	}
	remember, err := p.readRememberMe(ctx, flow)
	if err != nil {
		return credential.Input{}, err
	}
	return credential.Input{Identifier: username, Secret: password, RememberMe: remember}, nil
}

// readSecret 讀取密碼；輸入 :show 或 :hide 切換顯示後重新詢問
func (p *Presenter) readSecret(ctx context.Context, flow Flow) (string, error) {
	for {
		visible := flow.Projection().State.PasswordVisible
		hint := commandShow + " to reveal"
		if visible {
			hint = commandHide + " to mask"
		}
		label := fmt.Sprintf("Password (%s): ", hint)

		var (
			line string
			err  error
		)
		if p.tty && !visible {
			line, err = p.readHidden(ctx, label)
		} else {
			line, err = p.readLine(ctx, label)
		}
		if err != nil {
			return "", err
		}

		switch strings.TrimSpace(line) {
		case commandShow:
			if !visible {
				if err := flow.TogglePasswordVisibility(); err != nil {
					return "", err
				}
			}
		case commandHide:
			if visible {
				if err := flow.TogglePasswordVisibility(); err != nil {
					return "", err
				}
			}
		default:
			return line, nil
		}
	}
}

func (p *Presenter) readRememberMe(ctx context.Context, flow Flow) (bool, error) {
	current := flow.Projection().State.RememberMe
	label := "Remember me? [y/N]: "
	if current {
		label = "Remember me? [Y/n]: "
	}
	for {
		line, err := p.readLine(ctx, label)
		if err != nil {
			return false, err
		}
		v := current
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
		case "y", "yes":
			v = true
		case "n", "no":
			v = false
		default:
			p.printf("Please answer y or n.\n")
			continue
		}
		if err := flow.SetRememberMe(v); err != nil {
			return false, err
		}
		return v, nil
	}
}

type readResult struct {
	line string
	err  error
}

// readAsync 在背景執行阻塞的讀取；ctx 結束或已導向時放棄等待並回傳 abandoned
func (p *Presenter) readAsync(ctx context.Context, read func() (string, error)) (line string, abandoned bool, err error) {
	ch := make(chan readResult, 1)
	go func() {
		line, err := read()
		ch <- readResult{line: line, err: err}
	}()
	select {
	case r := <-ch:
		return r.line, false, r.err
	case <-p.navigated:
		return "", true, errNavigated
	case <-ctx.Done():
		return "", true, ctx.Err()
	}
}

func (p *Presenter) readLine(ctx context.Context, label string) (string, error) {
	p.printf("%s", label)
	line, _, err := p.readAsync(ctx, func() (string, error) {
		line, err := p.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				return "", ErrInputClosed
			}
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	})
	if err != nil {
		return "", err
	}
	return line, nil
}

func (p *Presenter) readHidden(ctx context.Context, label string) (string, error) {
	p.printf("%s", label)
	state, stateErr := getState(p.fd)
	line, abandoned, err := p.readAsync(ctx, func() (string, error) {
		b, err := readPassword(p.fd)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrInputClosed
			}
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	})
	// 放棄等待時 ReadPassword 尚未還原回顯
	if abandoned && stateErr == nil {
		_ = restoreState(p.fd, state)
	}
	p.printf("\n")
	if err != nil {
		return "", err
	}
	return line, nil
}

func (p *Presenter) renderFieldErrors(proj loginflow.Projection) {
	for _, f := range []credential.Field{credential.FieldIdentifier, credential.FieldSecret} {
		if msg, ok := proj.Validation.Message(f); ok {
			p.printf("  - %s\n", msg)
		}
	}
}
