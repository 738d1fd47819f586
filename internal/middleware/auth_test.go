package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-test-secret-test-secret"

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/me", func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c))
	})
	r.GET("/staff", RoleMiddleware(model.Counselor, model.Lead), func(c *gin.Context) {
		util.Success(c, nil)
	})
	return r
}

func token(t *testing.T, id uint, role model.UserRole, secret string) string {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: id}, Name: "x", Role: role}, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, path, auth string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage"))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", token(t, 1, model.Member, "another-secret")))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", token(t, 1, model.UserRole("councelor"), secret)))
	assert.Equal(t, http.StatusOK, do(r, "/me", token(t, 1, model.Member, secret)))
	assert.Equal(t, http.StatusOK, do(r, "/me?token="+token(t, 1, model.Member, secret), ""))
}

func TestRoleMiddleware(t *testing.T) {
	r := newEngine()

	assert.Equal(t, http.StatusForbidden, do(r, "/staff", token(t, 1, model.Member, secret)))
	assert.Equal(t, http.StatusForbidden, do(r, "/staff", token(t, 1, model.Director, secret)))
	assert.Equal(t, http.StatusOK, do(r, "/staff", token(t, 1, model.Lead, secret)))
	assert.Equal(t, http.StatusOK, do(r, "/staff", token(t, 1, model.Admin, secret)))
}
