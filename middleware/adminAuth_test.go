package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicbook/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func getWithAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware(t *testing.T) {
	orig := config.AppConfig.AdminToken
	defer func() { config.AppConfig.AdminToken = orig }()
	config.AppConfig.AdminToken = "topsecret"

	r := adminRouter()

	assert.Equal(t, http.StatusOK, getWithAuth(r, "Bearer topsecret").Code)
	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, "topsecret").Code)
	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, "").Code)
}

func TestAdminAuthMiddlewareUnsetTokenRejectsAll(t *testing.T) {
	orig := config.AppConfig.AdminToken
	defer func() { config.AppConfig.AdminToken = orig }()
	config.AppConfig.AdminToken = ""

	r := adminRouter()
	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, "Bearer anything").Code)
}
