package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret, subject, audience string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"aud": audience,
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "authenticated")

	t.Run("合法令牌返回subject作为租户标识", func(t *testing.T) {
		token := signToken(t, testSecret, "tenant-42", "authenticated", time.Now().Add(time.Hour))

		tenantID, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "tenant-42", tenantID)
	})

	t.Run("密钥不匹配时拒绝", func(t *testing.T) {
		token := signToken(t, "wrong-secret", "tenant-42", "authenticated", time.Now().Add(time.Hour))

		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("audience不匹配时拒绝", func(t *testing.T) {
		token := signToken(t, testSecret, "tenant-42", "other-audience", time.Now().Add(time.Hour))

		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("过期令牌被拒绝", func(t *testing.T) {
		token := signToken(t, testSecret, "tenant-42", "authenticated", time.Now().Add(-time.Hour))

		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("缺少exp的令牌被拒绝", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "tenant-42", "aud": "authenticated"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("缺少subject的令牌被拒绝", func(t *testing.T) {
		claims := jwt.MapClaims{"aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("乱码令牌被拒绝", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		assert.Error(t, err)
	})

	t.Run("audience默认为authenticated", func(t *testing.T) {
		v := NewTokenVerifier(testSecret, "")
		token := signToken(t, testSecret, "tenant-1", "authenticated", time.Now().Add(time.Hour))

		tenantID, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "tenant-1", tenantID)
	})
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromBearer("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromBearer("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := NewTokenVerifier(testSecret, "authenticated")

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/protected", AuthMiddleware(verifier), func(c *gin.Context) {
			tenantID, ok := GetTenantID(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID})
		})
		return r
	}

	t.Run("携带合法令牌的请求放行并注入租户标识", func(t *testing.T) {
		token := signToken(t, testSecret, "tenant-7", "authenticated", time.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "tenant-7")
	})

	t.Run("缺少Authorization头返回401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("无效令牌返回401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
