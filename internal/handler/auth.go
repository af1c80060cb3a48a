package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

var errNoToken = errors.New("用户未登录")

type AuthClaims struct {
	Role  string `json:"role"`
	OrgID string `json:"orgId"`
	jwt.RegisteredClaims
}

// IssueToken 为用户签发令牌，登录由外部的认证服务负责，这里只用于开发环境和测试
func IssueToken(secret string, user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role:  string(user.Role),
		OrgID: user.OrgID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	})
	return token.SignedString([]byte(secret))
}

// tokenFromRequest 优先从 cookie 中读取令牌，没有 cookie 时读取 Authorization 头
func (h *Handler) tokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(h.config.JWT.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		return "", err
	}

	authorization := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || token == "" {
		return "", errNoToken
	}
	return token, nil
}

func (h *Handler) parseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
