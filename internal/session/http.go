package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"login-flow/internal/dto"
)

const (
	loginPath = "/api/auth/login"

	// defaultRememberTTL 令牌沒有到期資訊時的保存期限
	defaultRememberTTL = 7 * 24 * time.Hour

	// maxErrorBody 讀取錯誤回應的上限
	maxErrorBody = 64 << 10

	invalidCredentialsMessage = "Invalid username or password"
)

// ErrUnexpectedResponse 認證伺服器回傳非預期的狀態碼或內容
var ErrUnexpectedResponse = errors.New("unexpected response from auth server")

// HTTPService 透過認證伺服器的 /api/auth/login 實作 Service
type HTTPService struct {
	baseURL  string
	client   *http.Client
	store    TokenStore
	storeKey string
	secret   []byte
	logger   *slog.Logger
	now      func() time.Time

	hub signalHub

	mu     sync.Mutex
	token  string
	claims *CustomClaims
	expiry *time.Timer
}

// HTTPOption 設定 HTTPService
type HTTPOption func(*HTTPService)

// WithHTTPClient 替換 http.Client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPService) { s.client = c }
}

// WithTokenStore 設定「記住我」使用的持久化儲存；未設定時只保存在記憶體
func WithTokenStore(store TokenStore, key string) HTTPOption {
	return func(s *HTTPService) {
		s.store = store
		if key != "" {
			s.storeKey = key
		}
	}
}

// WithSecret 設定 JWT 簽章金鑰，設定後會驗證令牌簽章
func WithSecret(secret []byte) HTTPOption {
	return func(s *HTTPService) { s.secret = secret }
}

// WithLogger 設定 logger
func WithLogger(l *slog.Logger) HTTPOption {
	return func(s *HTTPService) { s.logger = l }
}

// NewHTTPService 建立 HTTPService，baseURL 例如 http://localhost:8080
func NewHTTPService(baseURL string, opts ...HTTPOption) *HTTPService {
	s := &HTTPService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{},
		storeKey: "session:token:" + strings.TrimRight(baseURL, "/"),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signal 目前會話狀態
func (s *HTTPService) Signal() Signal { return s.hub.current() }

// Watch 訂閱會話狀態變化
func (s *HTTPService) Watch(fn func(Signal)) func() { return s.hub.watch(fn) }

// Claims 目前令牌的負載，未登入時為 nil
func (s *HTTPService) Claims() *CustomClaims {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims == nil {
		return nil
	}
	c := *s.claims
	return &c
}

// Login 以表單送出帳密
func (s *HTTPService) Login(ctx context.Context, identifier, secret string, opts ...LoginOption) (Result, error) {
	o := ApplyLoginOptions(opts...)

	s.hub.update(func(sig *Signal) { sig.IsLoading = true })
	defer s.hub.update(func(sig *Signal) { sig.IsLoading = false })

	form := url.Values{}
	form.Set("username", identifier)
	form.Set("password", secret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body dto.LoginResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return Result{}, fmt.Errorf("%w: decode login response: %v", ErrUnexpectedResponse, err)
		}
		claims, err := ParseAccessToken(body.AccessToken, s.secret, s.now())
		if err != nil {
			return Result{}, fmt.Errorf("%w: access token: %v", ErrUnexpectedResponse, err)
		}
		s.establish(claims, body.AccessToken)
		s.remember(ctx, o.RememberMe, body.AccessToken, s.rememberTTL(claims, body.ExpiresAt))
		return Result{Success: true}, nil

	case rejected(resp.StatusCode):
		return Result{Success: false, Error: rejectionMessage(resp)}, nil

	default:
		return Result{}, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
}

func rejected(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// rejectionMessage 取出伺服器的錯誤訊息；無法解析時 401 使用固定訊息，其餘留空交給呼叫端
func rejectionMessage(resp *http.Response) string {
	var body dto.HTTPError
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		_ = json.Unmarshal(raw, &body)
	}
	if body.Message != "" {
		return body.Message
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return invalidCredentialsMessage
	}
	return ""
}

func (s *HTTPService) rememberTTL(claims *CustomClaims, expiresAt time.Time) time.Duration {
	now := s.now()
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Sub(now)
	}
	if !expiresAt.IsZero() {
		return expiresAt.Sub(now)
	}
	return defaultRememberTTL
}

// remember 依 rememberMe 寫入或清除持久化令牌；失敗只記錄，不影響已成功的登入
func (s *HTTPService) remember(ctx context.Context, rememberMe bool, token string, ttl time.Duration) {
	if s.store == nil {
		return
	}
	var err error
	if rememberMe && ttl > 0 {
		err = s.store.Save(ctx, s.storeKey, token, ttl)
	} else {
		err = s.store.Delete(ctx, s.storeKey)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "token store update failed", "remember_me", rememberMe, "error", err)
	}
}

// establish 保存令牌、設定到期計時器並標記為已登入
func (s *HTTPService) establish(claims *CustomClaims, token string) {
	s.mu.Lock()
	s.token = token
	s.claims = claims
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
	if claims.ExpiresAt != nil {
		s.expiry = time.AfterFunc(claims.ExpiresAt.Sub(s.now()), func() { s.expire(token) })
	}
	s.mu.Unlock()

	s.hub.update(func(sig *Signal) { sig.IsAuthenticated = true })
}

// expire 令牌到期時登出，但只針對同一個令牌
func (s *HTTPService) expire(token string) {
	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.claims = nil
	s.expiry = nil
	s.mu.Unlock()

	s.logger.Info("session expired")
	s.hub.update(func(sig *Signal) { sig.IsAuthenticated = false })
}

// Restore 從持久化儲存還原先前記住的登入；令牌無效或過期時會一併刪除
func (s *HTTPService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.hub.update(func(sig *Signal) { sig.IsLoading = true })
	defer s.hub.update(func(sig *Signal) { sig.IsLoading = false })

	token, err := s.store.Load(ctx, s.storeKey)
	if err != nil {
		return fmt.Errorf("load remembered token: %w", err)
	}
	if token == "" {
		return nil
	}
	claims, err := ParseAccessToken(token, s.secret, s.now())
	if err != nil {
		s.logger.InfoContext(ctx, "discarding remembered token", "error", err)
		if err := s.store.Delete(ctx, s.storeKey); err != nil {
			return fmt.Errorf("delete remembered token: %w", err)
		}
		return nil
	}
	s.establish(claims, token)
	return nil
}

// Logout 清除記憶體與持久化儲存中的令牌
func (s *HTTPService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.claims = nil
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
	s.mu.Unlock()

	s.hub.update(func(sig *Signal) { sig.IsAuthenticated = false })

	if s.store != nil {
		if err := s.store.Delete(ctx, s.storeKey); err != nil {
			return fmt.Errorf("delete remembered token: %w", err)
		}
	}
	return nil
}
