package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voice-todo/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func init() { gin.SetMode(gin.TestMode) }

func protected() *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(testSecret, 7*24*time.Hour), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt("user_id"), "name": c.GetString("user_name")})
	})
	return r
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_Valid(t *testing.T) {
	token, err := IssueToken(testSecret, 7, "ada", 7*24*time.Hour)
	require.NoError(t, err)

	w := get(protected(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":7,"name":"ada"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-New-Token"))
}

func TestJWTAuth_RenewsNearExpiry(t *testing.T) {
	token, err := IssueToken(testSecret, 7, "ada", time.Hour)
	require.NoError(t, err)

	w := get(protected(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-New-Token"))
}

func TestJWTAuth_Rejects(t *testing.T) {
	expired, _ := IssueToken(testSecret, 7, "ada", -time.Hour)
	wrongKey, _ := IssueToken([]byte("other"), 7, "ada", time.Hour)
	noUID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "ada", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer not.a.token",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
		"no uid":         "Bearer " + noUID,
	}
	for name, auth := range tests {
		t.Run(name, func(t *testing.T) {
			w := get(protected(), auth)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-abc", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-abc", w.Body.String())
}
