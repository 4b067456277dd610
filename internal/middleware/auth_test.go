package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	jwtsvc "expertdesk/internal/pkg/jwt"
)

func newProtectedRouter(j *jwtsvc.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(j))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestAuth_ValidBearerToken(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)
	token, _ := j.GenerateToken(42, "client")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newProtectedRouter(j).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "client")
}

func TestAuth_TokenAsQueryParam(t *testing.T) {
	// websocket clients cannot set headers on the upgrade request
	j := jwtsvc.New("test-secret-123", time.Hour)
	token, _ := j.GenerateToken(7, "expert")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected?token="+token, nil)
	newProtectedRouter(j).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "expert")
}

func TestAuth_MissingCredentials(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	newProtectedRouter(j).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	issuer := jwtsvc.New("one-secret", time.Hour)
	verifier := jwtsvc.New("another-secret", time.Hour)
	token, _ := issuer.GenerateToken(42, "client")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newProtectedRouter(verifier).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/expert-only", func(c *gin.Context) {
		c.Set("role", "client")
		c.Next()
	}, RequireRole("expert", "admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/expert-only", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
