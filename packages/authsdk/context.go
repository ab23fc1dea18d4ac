package authsdk

import (
	"net/http"
	"strings"
)

// AccessTokenCookie 登录后论坛写入的 access token cookie 名
const AccessTokenCookie = "access_token"

// ExtractTokenFromRequest 从 HTTP 请求中提取 JWT token
// 支持三种方式：
// 1. access_token cookie
// 2. Authorization header (Bearer token)
// 3. x-access-token header
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if token := r.Header.Get("Authorization"); token != "" {
		// 移除 "Bearer " 前缀
		if strings.HasPrefix(token, "Bearer ") {
			return strings.TrimPrefix(token, "Bearer "), nil
		}
		return "", ErrInvalidToken
	}

	if token := r.Header.Get("X-Access-Token"); token != "" {
		return token, nil
	}

	return "", ErrNoToken
}

// GetUserFromRequest 从 HTTP 请求获取用户信息
// 如果没有 token 或解析失败，返回空的 UserContext（UserID=0）
func GetUserFromRequest(r *http.Request, secret string) *UserContext {
	token, err := ExtractTokenFromRequest(r)
	if err != nil {
		return &UserContext{} // 未登录用户
	}

	user, err := ParseToken(token, secret)
	if err != nil {
		return &UserContext{} // token 无效
	}

	return user
}

// IsAuthenticated 是否为已登录用户
func (u *UserContext) IsAuthenticated() bool {
	return u != nil && u.UserID > 0
}
