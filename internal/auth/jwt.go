package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier JWT 令牌验证器
// 只验证外部身份服务签发的令牌，不负责签发；
// 令牌的 subject 即租户标识。
type TokenVerifier struct {
	secretKey []byte
	audience  string
}

// NewTokenVerifier 创建令牌验证器
// audience 为空时默认 "authenticated"
func NewTokenVerifier(secretKey, audience string) *TokenVerifier {
	if audience == "" {
		audience = "authenticated"
	}
	return &TokenVerifier{
		secretKey: []byte(secretKey),
		audience:  audience,
	}
}

// Verify 验证令牌并返回租户标识
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (any, error) {
			// 验证签名算法
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("无效的签名算法: %v", token.Header["alg"])
			}
			return v.secretKey, nil
		},
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("解析令牌失败: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("无效的令牌: 缺少租户标识")
	}

	return subject, nil
}

// ExtractTokenFromBearer 从 Bearer 令牌中提取纯令牌字符串
func ExtractTokenFromBearer(bearerToken string) string {
	const prefix = "Bearer "
	if len(bearerToken) > len(prefix) && bearerToken[:len(prefix)] == prefix {
		return bearerToken[len(prefix):]
	}
	return bearerToken
}
