package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// renewWindow is how close to expiry a token must be before a fresh one is issued.
const renewWindow = 24 * time.Hour

// IssueToken signs an HS256 token for the user.
func IssueToken(secret []byte, uid int, name string, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
	}).SignedString(secret)
}

func JWTAuth(secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		uid, name, err := identity(token.Claims.(jwt.MapClaims))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("user_id", uid)
		c.Set("user_name", name)

		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			if time.Until(exp.Time) < renewWindow {
				if fresh, err := IssueToken(secret, uid, name, ttl); err == nil {
					c.Header("X-New-Token", fresh)
				}
			}
		}

		c.Next()
	}
}

func identity(claims jwt.MapClaims) (int, string, error) {
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, "", errors.New("missing uid")
	}
	name, _ := claims["name"].(string)
	return int(uid), name, nil
}
