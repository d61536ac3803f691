package auth

import (
	"backend/internal/common"

	"github.com/gin-gonic/gin"
)

// 上下文键
const tenantIDKey = "tenant_id"

// AuthMiddleware JWT 认证中间件
// 验证通过后将租户标识写入请求上下文，下游只会看到已验证的租户标识
func AuthMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "缺少认证令牌")
			return
		}

		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "无效的令牌格式")
			return
		}

		tenantID, err := verifier.Verify(token)
		if err != nil {
			common.AbortWithError(c, common.CodeUnauthorized, "令牌验证失败: "+err.Error())
			return
		}

		c.Set(tenantIDKey, tenantID)
		c.Next()
	}
}

// GetTenantID 从 Gin 上下文获取已验证的租户标识
func GetTenantID(c *gin.Context) (string, bool) {
	v, exists := c.Get(tenantIDKey)
	if !exists {
		return "", false
	}
	tenantID, ok := v.(string)
	return tenantID, ok && tenantID != ""
}
