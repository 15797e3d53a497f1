package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims CustomClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func claimsExpiring(id int, exp time.Time) CustomClaims {
	return CustomClaims{
		ID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestParseAccessTokenVerified(t *testing.T) {
	t.Cleanup(func() { parseWithClaims = jwt.ParseWithClaims })
	now := time.Now()
	tok := signToken(t, "s", claimsExpiring(3, now.Add(time.Hour)))

	claims, err := ParseAccessToken(tok, []byte("s"), now)
	require.NoError(t, err)
	require.Equal(t, 3, claims.ID)

	_, err = ParseAccessToken(tok, []byte("other"), now)
	require.Error(t, err)

	_, err = ParseAccessToken(tok, []byte("s"), now.Add(2*time.Hour))
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = ParseAccessToken(tokNone, []byte("s"), now)
	require.Error(t, err)

	parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = ParseAccessToken(tok, []byte("s"), now)
	require.EqualError(t, err, "invalid token")
}

func TestParseAccessTokenUnverified(t *testing.T) {
	now := time.Now()
	tok := signToken(t, "server-only", CustomClaims{ID: 7, IsAdmin: true, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}})

	claims, err := ParseAccessToken(tok, nil, now)
	require.NoError(t, err)
	require.Equal(t, 7, claims.ID)
	require.True(t, claims.IsAdmin)

	_, err = ParseAccessToken(tok, nil, now.Add(2*time.Hour))
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ParseAccessToken("not-a-token", nil, now)
	require.Error(t, err)

	noExp := signToken(t, "x", CustomClaims{ID: 1})
	claims, err = ParseAccessToken(noExp, nil, now)
	require.NoError(t, err)
	require.Nil(t, claims.ExpiresAt)
}
