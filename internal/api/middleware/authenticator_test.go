package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcastillob/rifas/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func newAuthenticatedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", NewAuthenticator(testSigningKey).VerifyJWT(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.GetUint(CtxKeyUserID)})
	})

	return router
}

func TestAuthenticator_VerifyJWT(t *testing.T) {
	token, err := jwthelper.GenerateToken([]byte(testSigningKey), 42, "test-agent")
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		userAgent string
		wantCode  int
	}{
		{
			name:      "valid token",
			header:    "Bearer " + token,
			userAgent: "test-agent",
			wantCode:  http.StatusOK,
		},
		{
			name:     "missing header",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:      "missing Bearer prefix",
			header:    token,
			userAgent: "test-agent",
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "garbage token",
			header:    "Bearer not.a.token",
			userAgent: "test-agent",
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "token presented by a different client",
			header:    "Bearer " + token,
			userAgent: "other-agent",
			wantCode:  http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthenticatedRouter()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.userAgent != "" {
				req.Header.Set("User-Agent", tt.userAgent)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Contains(t, w.Body.String(), "42")
			}
		})
	}
}
