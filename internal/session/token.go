package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims 對應認證伺服器簽發的 JWT 負載
type CustomClaims struct {
	ID      int  `json:"id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// parseWithClaims 測試可覆寫此變數
var parseWithClaims = jwt.ParseWithClaims

// ParseAccessToken 解析存取令牌並檢查到期時間
// secret 不為空時以 HS256 驗證簽章；為空時僅解碼負載（用戶端通常不持有簽章金鑰）
func ParseAccessToken(tokenString string, secret []byte, now time.Time) (*CustomClaims, error) {
	if len(secret) > 0 {
		token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		}, jwt.WithTimeFunc(func() time.Time { return now }))
		if err != nil {
			return nil, err
		}
		claims, ok := token.Claims.(*CustomClaims)
		if !ok || !token.Valid {
			return nil, fmt.Errorf("invalid token")
		}
		return claims, nil
	}

	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, jwt.ErrTokenExpired
	}
	return claims, nil
}
