package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/houzhh15/roomz/cmd/server/internal/metrics"
)

// UserKey is the gin context key set to the authenticated username.
const UserKey = "user"

// AnonymousUser is reported when auth is disabled.
const AnonymousUser = "anonymous"

// NewPasswordVerifier returns a check against secret. A secret that looks like a
// bcrypt hash ($2a$, $2b$, $2y$) is compared with bcrypt, anything else in
// constant time as plain text.
func NewPasswordVerifier(secret string) func(string) bool {
	if isBcryptHash(secret) {
		hash := []byte(secret)
		return func(password string) bool {
			return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
		}
	}
	want := []byte(secret)
	return func(password string) bool {
		return subtle.ConstantTimeCompare([]byte(password), want) == 1
	}
}

func isBcryptHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// BasicAuth guards a route group. With no credentials configured every
// request passes through.
func BasicAuth(username, password, realm string) gin.HandlerFunc {
	if username == "" && password == "" {
		return func(c *gin.Context) { c.Next() }
	}

	verify := NewPasswordVerifier(password)
	challenge := `Basic realm="` + realm + `"`
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 || !verify(pass) {
			metrics.RecordAuthFailure()
			c.Header("WWW-Authenticate", challenge)
			c.String(401, "Unauthorized")
			c.Abort()
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated username or AnonymousUser.
func CurrentUser(c *gin.Context) string {
	if user, exists := c.Get(UserKey); exists {
		if username, ok := user.(string); ok && username != "" {
			return username
		}
	}
	return AnonymousUser
}
