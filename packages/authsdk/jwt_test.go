package authsdk

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, userID int, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID:   userID,
		Username: "gardener",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseToken(t *testing.T) {
	valid := signToken(t, testSecret, 7, time.Now().Add(time.Hour))
	expired := signToken(t, testSecret, 7, time.Now().Add(-time.Hour))
	otherKey := signToken(t, "another-secret", 7, time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		token   string
		wantErr error
		wantUID int
	}{
		{name: "有效令牌", token: valid, wantUID: 7},
		{name: "空令牌", token: "", wantErr: ErrNoToken},
		{name: "过期令牌", token: expired, wantErr: ErrExpiredToken},
		{name: "签名不匹配", token: otherKey, wantErr: ErrInvalidToken},
		{name: "格式错误", token: "not.a.jwt", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := ParseToken(tt.token, testSecret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, user.UserID)
			assert.Equal(t, "gardener", user.Username)
		})
	}
}

func TestGetUserFromRequest(t *testing.T) {
	token := signToken(t, testSecret, 12, time.Now().Add(time.Hour))

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		user := GetUserFromRequest(req, testSecret)
		assert.True(t, user.IsAuthenticated())
		assert.Equal(t, 12, user.UserID)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, 12, GetUserFromRequest(req, testSecret).UserID)
	})

	t.Run("x-access-token header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Access-Token", token)
		assert.Equal(t, 12, GetUserFromRequest(req, testSecret).UserID)
	})

	t.Run("未登录", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.False(t, GetUserFromRequest(req, testSecret).IsAuthenticated())
	})

	t.Run("错误的 Authorization 格式", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token "+token)
		assert.False(t, GetUserFromRequest(req, testSecret).IsAuthenticated())
	})
}
