package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medbrain/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":   c.GetUint("userID"),
			"publicID": c.GetString("publicID"),
		})
	})
	return r
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := utils.GenerateJWT(testSecret, time.Hour, 42, "abc-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":42`)
	assert.Contains(t, w.Body.String(), `"publicID":"abc-123"`)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	wrongSecret, err := utils.GenerateJWT("other-secret", time.Hour, 42, "abc-123")
	require.NoError(t, err)
	expired, err := utils.GenerateJWT(testSecret, -time.Hour, 42, "abc-123")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"expired", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			protectedRouter().ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
