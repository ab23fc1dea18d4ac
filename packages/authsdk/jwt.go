package authsdk

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrNoToken      = errors.New("no token provided")
)

// Claims 论坛签发的 JWT 声明
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserContext 当前请求的用户
type UserContext struct {
	UserID   int
	Username string
}

// ParseToken 解析并验证 JWT token，仅接受 HMAC 签名
func ParseToken(tokenString, secret string) (*UserContext, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &UserContext{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}
