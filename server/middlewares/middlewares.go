package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenResolver maps a session token to a user id, "" when the token is
// invalid or expired. Satisfied by session.Store.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

var sessions TokenResolver

// Setup initializes the package scoped token resolver. This function must be
// called before any middleware is used.
func Setup(resolver TokenResolver) {
	sessions = resolver
}

// Token fetches the session token in the http header field "token", resolves
// it to a user id and adds a new field "sub" storing that id. It aborts with
// 401 on token not provided or token invalid (unknown or expired).
func Token() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("token")

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"msg": "empty session token",
			})
			c.Abort()
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"msg": err.Error(),
			})
			c.Abort()
			return
		}
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"msg": "invalid session token",
			})
			c.Abort()
			return
		}

		// Successfully validated the token, replace the header field "token"
		// with the user's sub (id). Set, not Add, so a forged inbound "sub"
		// cannot shadow the resolved one.
		c.Request.Header.Del("token")
		c.Request.Header.Set("sub", userID)

		c.Next()
	}
}

// OptionalToken resolves the token like Token but lets anonymous requests
// through without a "sub" field. A token that is present but invalid is
// still rejected rather than downgraded to anonymous.
func OptionalToken() gin.HandlerFunc {
	required := Token()
	return func(c *gin.Context) {
		if c.GetHeader("token") == "" {
			c.Request.Header.Del("sub")
			c.Next()
			return
		}
		required(c)
	}
}
