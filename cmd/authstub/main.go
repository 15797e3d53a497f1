// File: cmd/authstub/main.go
// 本地開發用的認證伺服器：STUB_USERS=alice:s3cret,bob:pw
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"login-flow/internal/authstub"
	"login-flow/internal/config"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var (
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc    = os.Exit
)

func run() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	ttl := time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("無效的 TOKEN_TTL: %q", v)
		}
		ttl = d
	}

	srv := authstub.New([]byte(secret), ttl)
	users := os.Getenv("STUB_USERS")
	if users == "" {
		return fmt.Errorf("環境變數 STUB_USERS 未設定")
	}
	for _, entry := range strings.Split(users, ",") {
		name, password, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || name == "" {
			return fmt.Errorf("無效的 STUB_USERS 項目: %q", entry)
		}
		if _, err := srv.AddUser(name, password, false); err != nil {
			return err
		}
	}

	e := srv.Echo()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	return startServer(e, config.GetEnvOrDefault("LISTEN_ADDR", ":8081"))
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
