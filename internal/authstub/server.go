// File: internal/authstub/server.go
// Package authstub 是本地開發與測試用的認證伺服器，
// 只實作登入流程所依賴的 POST /api/auth/login。
package authstub

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"login-flow/internal/dto"
	"login-flow/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const invalidCredentials = "invalid credentials"

// CustomValidator wraps go-playground/validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// User 一筆使用者資料
type User struct {
	ID           int
	Name         string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
}

// Server 記憶體中的使用者表與令牌簽發
type Server struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu     sync.RWMutex
	users  map[string]User
	nextID int
}

// New 建立 Server；ttl 為簽發令牌的有效期限
func New(secret []byte, ttl time.Duration) *Server {
	return &Server{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		users:  make(map[string]User),
		nextID: 1,
	}
}

// AddUser 新增使用者，密碼以 bcrypt 保存
func (s *Server) AddUser(name, password string, isAdmin bool) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[name]; ok {
		return User{}, fmt.Errorf("user %q already exists", name)
	}
	u := User{ID: s.nextID, Name: name, PasswordHash: hash, IsAdmin: isAdmin}
	s.nextID++
	s.users[name] = u
	return u, nil
}

// Disable 停用使用者，之後登入回傳 403
func (s *Server) Disable(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	if !ok {
		return false
	}
	u.Disabled = true
	s.users[name] = u
	return true
}

func (s *Server) lookup(name string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[name]
	return u, ok
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func (s *Server) IssueAccessToken(u User) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("JWT secret not set")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := session.CustomClaims{
		ID:      u.ID,
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// LoginHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證，回傳存取令牌與到期時間
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "使用者名稱"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} dto.LoginResponse
// @Failure     400      {object} dto.HTTPError
// @Failure     401      {object} dto.HTTPError
// @Failure     403      {object} dto.HTTPError
// @Failure     500      {object} dto.HTTPError
// @Router      /auth/login [post]
func (s *Server) LoginHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.AuthLoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: fmt.Sprintf("無效的表單資料: %v", err)})
		}
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		u, ok := s.lookup(strings.TrimSpace(req.Username))
		if !ok {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: invalidCredentials})
		}
		if err := ComparePassword(u.PasswordHash, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: invalidCredentials})
		}
		if u.Disabled {
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "account disabled"})
		}

		token, exp, err := s.IssueAccessToken(u)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}
		return c.JSON(http.StatusOK, dto.LoginResponse{AccessToken: token, ExpiresAt: exp})
	}
}

// Echo 建立掛好路由的 echo 實例
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.POST("/api/auth/login", s.LoginHandler())
	return e
}
